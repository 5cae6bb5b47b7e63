package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"terrasky/internal/aggregator"
	"terrasky/internal/types"
)

// ProcessCoordinatesInput is the JSON body for coordinate lookups. Pointers
// keep 0 (the equator and the prime meridian) distinguishable from a missing
// field.
type ProcessCoordinatesInput struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// handleIndex renders the interactive map page.
func (app *App) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// handleProcessCoordinates godoc
// @Summary Aggregate data for coordinates
// @Description Fan out to terrain, elevation, weather, urban-center, and astronomy sources for a coordinate pair and return the merged result
// @Tags lookup
// @Accept json
// @Produce json
// @Param input body ProcessCoordinatesInput true "Coordinates in decimal degrees"
// @Success 200 {object} map[string]aggregator.Response
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /process_coordinates [post]
func (app *App) handleProcessCoordinates(c *gin.Context) {
	var input ProcessCoordinatesInput

	// Bind and validate the JSON body
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coords := types.NewCoords(*input.Latitude, *input.Longitude)

	resp, err := app.aggregator.Lookup(c.Request.Context(), coords)
	if err != nil {
		// Check if it's a validation error from the business layer
		if errors.Is(err, types.ErrInvalidLatitude) || errors.Is(err, types.ErrInvalidLongitude) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Other errors are internal server errors
		app.logger.Error("failed to process coordinates",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process coordinates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// handleCityForm godoc
// @Summary Aggregate data for a city
// @Description Resolve a city name to coordinates and return the merged lookup result
// @Tags lookup
// @Accept x-www-form-urlencoded
// @Produce json
// @Param city formData string true "City name"
// @Success 200 {object} map[string]aggregator.Response
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router / [post]
func (app *App) handleCityForm(c *gin.Context) {
	city := strings.TrimSpace(c.PostForm("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	resp, err := app.aggregator.LookupCity(c.Request.Context(), city)
	if err != nil {
		if errors.Is(err, aggregator.ErrCityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("City '%s' not found.", city)})
			return
		}

		app.logger.Error("failed to look up city", "city", city, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up city"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
