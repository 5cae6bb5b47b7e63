package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"terrasky/internal/astronomy"
	"terrasky/internal/observability"
	"terrasky/internal/providers/nominatim"
	"terrasky/internal/providers/openelevation"
	"terrasky/internal/providers/openmeteo"
	"terrasky/internal/providers/opennotify"
	"terrasky/internal/providers/overpass"
	"terrasky/internal/timezone"
	"terrasky/internal/types"
	"terrasky/internal/urban"
)

// ErrCityNotFound is returned when a city name cannot be geocoded.
var ErrCityNotFound = errors.New("city not found")

// GeocodeProvider resolves a city name to coordinates.
type GeocodeProvider interface {
	Search(ctx context.Context, city string) (*nominatim.SearchAPIResult, error)
}

// ElevationProvider fetches elevation data for a coordinate pair.
type ElevationProvider interface {
	GetElevation(ctx context.Context, latitude, longitude float64) (*openelevation.LookupAPIResponse, error)
}

// TerrainProvider fetches terrain tags and settlement nodes around a point.
type TerrainProvider interface {
	GetTerrainTypes(ctx context.Context, latitude, longitude float64) ([]string, error)
	GetUrbanCenters(ctx context.Context, latitude, longitude float64, radiusKm int) ([]overpass.UrbanCenterNode, error)
}

// ForecastProvider fetches the weather forecast for a coordinate pair.
type ForecastProvider interface {
	GetForecast(ctx context.Context, latitude, longitude float64, timezone string, forecastDays int) (*openmeteo.ForecastAPIResponse, error)
}

// PassProvider fetches upcoming ISS passes over a point.
type PassProvider interface {
	GetPasses(ctx context.Context, latitude, longitude float64, numberOfPasses int) (*opennotify.PassAPIResponse, error)
}

// Service aggregates geographic, weather, and astronomical data for a point.
type Service interface {
	Lookup(ctx context.Context, coords types.Coords) (*Response, error)
	LookupCity(ctx context.Context, city string) (*Response, error)
}

// Options tune the aggregation pipeline.
type Options struct {
	UrbanRadiusKm int
	ForecastDays  int
	ISSPasses     int
	CacheTTL      time.Duration
	EphemerisDir  string
}

type aggregatorService struct {
	geocode   GeocodeProvider
	elevation ElevationProvider
	terrain   TerrainProvider
	forecast  ForecastProvider
	passes    PassProvider
	astronomy astronomy.Service
	timezones timezone.Service

	metrics *observability.Metrics
	clock   clockwork.Clock
	cache   *cache.Cache
	group   singleflight.Group
	logger  *slog.Logger
	opts    Options
}

// NewService creates an aggregator backed by the real upstream clients.
func NewService(logger *slog.Logger, metrics *observability.Metrics, opts Options) (Service, error) {
	tzService, err := timezone.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create timezone service: %w", err)
	}

	overpassClient := overpass.NewClient(logger)
	return NewServiceWithProviders(
		logger,
		metrics,
		opts,
		nominatim.NewClient(logger),
		openelevation.NewClient(logger),
		overpassClient,
		openmeteo.NewForecastClient(logger),
		opennotify.NewClient(logger),
		astronomy.NewService(opts.EphemerisDir, logger),
		tzService,
		clockwork.NewRealClock(),
	), nil
}

// NewServiceWithProviders creates an aggregator with custom providers.
// This is useful for testing with mock providers and a fake clock.
func NewServiceWithProviders(
	logger *slog.Logger,
	metrics *observability.Metrics,
	opts Options,
	geocode GeocodeProvider,
	elevation ElevationProvider,
	terrain TerrainProvider,
	forecast ForecastProvider,
	passes PassProvider,
	astronomyService astronomy.Service,
	timezoneService timezone.Service,
	clock clockwork.Clock,
) Service {
	return &aggregatorService{
		geocode:   geocode,
		elevation: elevation,
		terrain:   terrain,
		forecast:  forecast,
		passes:    passes,
		astronomy: astronomyService,
		timezones: timezoneService,
		metrics:   metrics,
		clock:     clock,
		cache:     cache.New(opts.CacheTTL, 10*time.Minute),
		logger:    logger.With("component", "aggregator-service"),
		opts:      opts,
	}
}

// Lookup aggregates all sections for the given coordinates.
func (s *aggregatorService) Lookup(ctx context.Context, coords types.Coords) (*Response, error) {
	s.metrics.LookupsTotal.WithLabelValues("coordinates").Inc()
	return s.lookupCached(ctx, coords)
}

// LookupCity geocodes a city name and aggregates all sections for its
// best-match coordinates.
func (s *aggregatorService) LookupCity(ctx context.Context, city string) (*Response, error) {
	s.metrics.LookupsTotal.WithLabelValues("city").Inc()

	result, err := s.geocode.Search(ctx, city)
	if err != nil {
		if errors.Is(err, nominatim.ErrNoResults) {
			return nil, fmt.Errorf("%w: %q", ErrCityNotFound, city)
		}
		return nil, fmt.Errorf("failed to geocode city: %w", err)
	}

	latitude, longitude, err := result.Coordinates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse geocode result: %w", err)
	}

	resp, err := s.lookupCached(ctx, types.NewCoords(latitude, longitude))
	if err != nil {
		return nil, err
	}

	// Copy before annotating so the cached response stays untouched.
	annotated := *resp
	annotated.LocationInfo.DisplayName = result.DisplayName
	return &annotated, nil
}

// lookupCached serves a lookup from the memo cache when possible and
// collapses concurrent identical lookups into one upstream fan-out.
func (s *aggregatorService) lookupCached(ctx context.Context, coords types.Coords) (*Response, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%.4f,%.4f", coords.Latitude, coords.Longitude)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.LookupCache.WithLabelValues("hit").Inc()
		return cached.(*Response), nil
	}
	s.metrics.LookupCache.WithLabelValues("miss").Inc()

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		resp := s.lookup(ctx, coords)
		// Responses with failed sections are not memoized, so transient
		// upstream outages do not stick for the whole TTL.
		if len(resp.Errors) == 0 {
			s.cache.Set(key, resp, cache.DefaultExpiration)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Response), nil
}

// lookup fans out to every section concurrently. Sections fail independently
// into resp.Errors; the response is a pure function of the coordinates and
// the current time.
func (s *aggregatorService) lookup(ctx context.Context, coords types.Coords) *Response {
	start := s.clock.Now()
	defer func() {
		s.metrics.LookupDuration.Observe(s.clock.Now().Sub(start).Seconds())
	}()

	resp := &Response{
		LocationInfo: types.LocationInfo{
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
		},
		Errors: make(map[string]string),
	}

	tzName, err := s.timezones.GetTimezone(coords.Latitude, coords.Longitude)
	if err != nil {
		s.logger.Warn("timezone lookup failed, falling back to UTC",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"error", err,
		)
		tzName = "UTC"
	}
	resp.LocationInfo.Timezone = tzName

	var mu sync.Mutex
	fail := func(section string, err error) {
		s.metrics.SectionErrors.WithLabelValues(section).Inc()
		s.logger.Warn("section failed", "section", section, "error", err)
		mu.Lock()
		resp.Errors[section] = err.Error()
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		terrainTypes, err := timed(s, "overpass", func() ([]string, error) {
			return s.terrain.GetTerrainTypes(ctx, coords.Latitude, coords.Longitude)
		})
		if err != nil {
			fail("terrain_types", err)
			return
		}
		resp.TerrainTypes = terrainTypes
	}()

	go func() {
		defer wg.Done()
		lookupResp, err := timed(s, "openelevation", func() (*openelevation.LookupAPIResponse, error) {
			return s.elevation.GetElevation(ctx, coords.Latitude, coords.Longitude)
		})
		if err != nil {
			fail("elevation", err)
			return
		}
		elevation := types.NewElevationFromMeters(lookupResp.Results[0].Elevation)
		resp.Elevation = &elevation
	}()

	go func() {
		defer wg.Done()
		nodes, err := timed(s, "overpass", func() ([]overpass.UrbanCenterNode, error) {
			return s.terrain.GetUrbanCenters(ctx, coords.Latitude, coords.Longitude, s.opts.UrbanRadiusKm)
		})
		if err != nil {
			fail("urban_centers", err)
			return
		}

		places := make([]urban.Place, 0, len(nodes))
		for _, node := range nodes {
			places = append(places, urban.Place{
				Name:      node.Name,
				Latitude:  node.Latitude,
				Longitude: node.Longitude,
			})
		}

		centers, nearest, err := urban.RankByDistance(coords.Latitude, coords.Longitude, places)
		if err != nil {
			if errors.Is(err, urban.ErrNoPlaces) {
				// Remote areas legitimately have no nearby settlement.
				s.logger.Debug("no urban centers within radius",
					"latitude", coords.Latitude,
					"longitude", coords.Longitude,
					"radius_km", s.opts.UrbanRadiusKm,
				)
				return
			}
			fail("urban_centers", err)
			return
		}

		resp.UrbanCenters = centers
		resp.NearestUrbanCenter = &nearest
		resp.DistanceFromUrbanCenter = &nearest.Distance
	}()

	go func() {
		defer wg.Done()
		forecastResp, err := timed(s, "openmeteo", func() (*openmeteo.ForecastAPIResponse, error) {
			return s.forecast.GetForecast(ctx, coords.Latitude, coords.Longitude, tzName, s.opts.ForecastDays)
		})
		if err != nil {
			fail("weather", err)
			return
		}

		loc, err := time.LoadLocation(tzName)
		if err != nil {
			loc = time.UTC
		}
		resp.CurrentWeather, resp.HourlyWeather, resp.DailyWeather = mapForecastResponse(forecastResp, loc)
	}()

	go func() {
		defer wg.Done()
		events, err := s.astronomy.Events(s.clock.Now(), coords.Latitude, coords.Longitude)
		if err != nil {
			fail("astronomical_events", err)
			return
		}

		passResp, err := timed(s, "opennotify", func() (*opennotify.PassAPIResponse, error) {
			return s.passes.GetPasses(ctx, coords.Latitude, coords.Longitude, s.opts.ISSPasses)
		})
		if err != nil {
			fail("iss_passes", err)
		} else {
			events.ISSPasses = mapPasses(passResp)
		}

		resp.AstronomicalEvents = events
	}()

	wg.Wait()

	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}

	s.logger.Info("lookup aggregated",
		"latitude", coords.Latitude,
		"longitude", coords.Longitude,
		"timezone", tzName,
		"failed_sections", len(resp.Errors),
		"duration", s.clock.Now().Sub(start),
	)

	return resp
}

// timed runs fn and records its duration under the provider label.
func timed[T any](s *aggregatorService, provider string, fn func() (T, error)) (T, error) {
	start := s.clock.Now()
	result, err := fn()
	s.metrics.UpstreamLatency.WithLabelValues(provider).Observe(s.clock.Now().Sub(start).Seconds())
	return result, err
}
