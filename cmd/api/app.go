package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"terrasky/internal/aggregator"
	"terrasky/internal/config"
	"terrasky/internal/observability"
)

// App encapsulates application dependencies
type App struct {
	router     *gin.Engine
	logger     *slog.Logger
	aggregator aggregator.Service
	cfg        *config.Config
}

// NewApp creates a new application with injected dependencies
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	metrics := observability.NewMetrics()

	aggregatorService, err := aggregator.NewService(logger, metrics, aggregator.Options{
		UrbanRadiusKm: cfg.App.UrbanRadiusKm,
		ForecastDays:  cfg.App.ForecastDays,
		ISSPasses:     cfg.App.ISSPasses,
		CacheTTL:      cfg.App.CacheTTL,
		EphemerisDir:  cfg.App.EphemerisDir,
	})
	if err != nil {
		return nil, err
	}

	app := newApp(cfg, logger, aggregatorService)

	// Presentation assets for the map UI
	app.router.LoadHTMLGlob("web/templates/*")
	app.router.Static("/static", "./web/static")

	return app, nil
}

// newApp wires the router and routes around an aggregator service. Split out
// so tests can inject a mock service without loading web assets.
func newApp(cfg *config.Config, logger *slog.Logger, aggregatorService aggregator.Service) *App {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())

	app := &App{
		router:     router,
		logger:     logger,
		aggregator: aggregatorService,
		cfg:        cfg,
	}

	// Register routes
	app.registerRoutes()

	return app
}

// Run starts the HTTP server
func (app *App) Run(addr string) error {
	return app.router.Run(addr)
}
