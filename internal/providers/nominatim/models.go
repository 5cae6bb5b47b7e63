package nominatim

import (
	"fmt"
	"strconv"
)

// SearchAPIResponse is the array Nominatim returns for a search query.
type SearchAPIResponse []SearchAPIResult

type SearchAPIResult struct {
	PlaceId     int      `json:"place_id"`
	Licence     string   `json:"licence"`
	OsmType     string   `json:"osm_type"`
	OsmId       int      `json:"osm_id"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Class       string   `json:"class"`
	Type        string   `json:"type"`
	PlaceRank   int      `json:"place_rank"`
	Importance  float64  `json:"importance"`
	Addresstype string   `json:"addresstype"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Boundingbox []string `json:"boundingbox"`
}

// Coordinates parses the string lat/lon fields Nominatim returns.
func (r *SearchAPIResult) Coordinates() (latitude, longitude float64, err error) {
	latitude, err = strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse latitude %q: %w", r.Lat, err)
	}
	longitude, err = strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse longitude %q: %w", r.Lon, err)
	}
	return latitude, longitude, nil
}
