package aggregator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrasky/internal/observability"
	"terrasky/internal/providers/nominatim"
	"terrasky/internal/providers/openelevation"
	"terrasky/internal/providers/openmeteo"
	"terrasky/internal/providers/opennotify"
	"terrasky/internal/providers/overpass"
	"terrasky/internal/types"
)

type mockGeocode struct {
	result *nominatim.SearchAPIResult
	err    error
}

func (m *mockGeocode) Search(ctx context.Context, city string) (*nominatim.SearchAPIResult, error) {
	return m.result, m.err
}

type mockElevation struct {
	meters float64
	err    error
}

func (m *mockElevation) GetElevation(ctx context.Context, latitude, longitude float64) (*openelevation.LookupAPIResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &openelevation.LookupAPIResponse{
		Results: []openelevation.LookupResult{{Latitude: latitude, Longitude: longitude, Elevation: m.meters}},
	}, nil
}

type mockTerrain struct {
	terrainTypes []string
	terrainErr   error
	nodes        []overpass.UrbanCenterNode
	urbanErr     error
	terrainCalls atomic.Int32
}

func (m *mockTerrain) GetTerrainTypes(ctx context.Context, latitude, longitude float64) ([]string, error) {
	m.terrainCalls.Add(1)
	return m.terrainTypes, m.terrainErr
}

func (m *mockTerrain) GetUrbanCenters(ctx context.Context, latitude, longitude float64, radiusKm int) ([]overpass.UrbanCenterNode, error) {
	return m.nodes, m.urbanErr
}

type mockForecast struct {
	resp *openmeteo.ForecastAPIResponse
	err  error
}

func (m *mockForecast) GetForecast(ctx context.Context, latitude, longitude float64, timezone string, forecastDays int) (*openmeteo.ForecastAPIResponse, error) {
	return m.resp, m.err
}

type mockPasses struct {
	resp *opennotify.PassAPIResponse
	err  error
}

func (m *mockPasses) GetPasses(ctx context.Context, latitude, longitude float64, numberOfPasses int) (*opennotify.PassAPIResponse, error) {
	return m.resp, m.err
}

type stubAstronomy struct {
	events *types.AstronomicalEvents
	err    error
}

func (s *stubAstronomy) Events(date time.Time, latitude, longitude float64) (*types.AstronomicalEvents, error) {
	if s.err != nil {
		return nil, s.err
	}
	events := *s.events
	return &events, nil
}

type stubTimezone struct {
	name string
	err  error
}

func (s *stubTimezone) GetTimezone(latitude, longitude float64) (string, error) {
	return s.name, s.err
}

type testFixture struct {
	service   Service
	geocode   *mockGeocode
	elevation *mockElevation
	terrain   *mockTerrain
	forecast  *mockForecast
	passes    *mockPasses
	astronomy *stubAstronomy
	clock     *clockwork.FakeClock
}

func testForecastResponse() *openmeteo.ForecastAPIResponse {
	return &openmeteo.ForecastAPIResponse{
		Timezone: "Europe/Warsaw",
		Current: openmeteo.Current{
			Time:          "2025-08-12T14:00",
			Temperature2m: 24.3,
			IsDay:         1,
			CloudCover:    40,
		},
		Hourly: openmeteo.Hourly{
			Time:                     []string{"2025-08-12T00:00", "2025-08-12T01:00", "2025-08-12T02:00"},
			Temperature2m:            []float64{17.1, 16.8, 16.5},
			PrecipitationProbability: []float64{5, 10, 15},
			Precipitation:            []float64{0, 0, 0.2},
			CloudCover:               []float64{20, 85, 60},
			Visibility:               []float64{24140, 20000, 18000},
			IsDay:                    []int{0, 0, 0},
		},
		Daily: openmeteo.Daily{
			Time:                        []string{"2025-08-12"},
			PrecipitationProbabilityMax: []float64{35},
		},
	}
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		geocode: &mockGeocode{
			result: &nominatim.SearchAPIResult{
				Lat:         "52.2319581",
				Lon:         "21.0067249",
				DisplayName: "Warsaw, Masovian Voivodeship, Poland",
			},
		},
		elevation: &mockElevation{meters: 142},
		terrain: &mockTerrain{
			terrainTypes: []string{"water", "wood"},
			nodes: []overpass.UrbanCenterNode{
				{Name: "Zielona Góra", Latitude: 51.9356, Longitude: 15.5062},
				{Name: "Żagań", Latitude: 51.6167, Longitude: 15.3167},
			},
		},
		forecast: &mockForecast{resp: testForecastResponse()},
		passes: &mockPasses{
			resp: &opennotify.PassAPIResponse{
				Message:  "success",
				Response: []opennotify.Pass{{Risetime: 1755000000, Duration: 540}},
			},
		},
		astronomy: &stubAstronomy{
			events: &types.AstronomicalEvents{
				MoonInfo:      types.MoonInfo{MoonPhase: "Waning Gibbous"},
				MeteorShowers: []types.MeteorShower{{Name: "Perseids", ZHR: 100}},
			},
		},
		clock: clockwork.NewFakeClockAt(time.Date(2025, time.August, 12, 14, 0, 0, 0, time.UTC)),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewServiceWithProviders(
		logger,
		observability.NewMetricsForTesting(),
		Options{UrbanRadiusKm: 50, ForecastDays: 7, ISSPasses: 5, CacheTTL: time.Minute},
		f.geocode,
		f.elevation,
		f.terrain,
		f.forecast,
		f.passes,
		f.astronomy,
		&stubTimezone{name: "Europe/Warsaw"},
		f.clock,
	)
	return f
}

func TestLookup_AllSections(t *testing.T) {
	f := newTestFixture(t)

	resp, err := f.service.Lookup(context.Background(), types.NewCoords(51.6424, 15.1372))
	require.NoError(t, err)

	assert.Equal(t, 51.6424, resp.LocationInfo.Latitude)
	assert.Equal(t, 15.1372, resp.LocationInfo.Longitude)
	assert.Equal(t, "Europe/Warsaw", resp.LocationInfo.Timezone)

	assert.Equal(t, []string{"water", "wood"}, resp.TerrainTypes)
	require.NotNil(t, resp.Elevation)
	assert.Equal(t, 142.0, resp.Elevation.Meters)

	require.NotNil(t, resp.NearestUrbanCenter)
	assert.Equal(t, "Żagań", resp.NearestUrbanCenter.Name)
	require.NotNil(t, resp.DistanceFromUrbanCenter)
	assert.Equal(t, resp.NearestUrbanCenter.Distance, *resp.DistanceFromUrbanCenter)
	for _, center := range resp.UrbanCenters {
		assert.GreaterOrEqual(t, center.Distance, *resp.DistanceFromUrbanCenter)
	}

	require.NotNil(t, resp.CurrentWeather)
	assert.Equal(t, "🌤️", resp.CurrentWeather.CloudCoverEmoji)
	require.Len(t, resp.HourlyWeather, 3)
	for i := 1; i < len(resp.HourlyWeather); i++ {
		assert.True(t, resp.HourlyWeather[i].Date.After(resp.HourlyWeather[i-1].Date),
			"hourly weather must be chronologically ordered")
	}
	require.Len(t, resp.DailyWeather, 1)

	require.NotNil(t, resp.AstronomicalEvents)
	assert.Equal(t, "Waning Gibbous", resp.AstronomicalEvents.MoonInfo.MoonPhase)
	require.Len(t, resp.AstronomicalEvents.ISSPasses, 1)
	assert.Equal(t, 540, resp.AstronomicalEvents.ISSPasses[0].DurationSeconds)

	assert.Nil(t, resp.Errors)
}

func TestLookup_WeatherFailureIsIsolated(t *testing.T) {
	f := newTestFixture(t)
	f.forecast.err = errors.New("forecast unavailable")

	resp, err := f.service.Lookup(context.Background(), types.NewCoords(51.6424, 15.1372))
	require.NoError(t, err)

	assert.Nil(t, resp.CurrentWeather)
	assert.Empty(t, resp.HourlyWeather)
	require.Contains(t, resp.Errors, "weather")

	// The rest of the response is unaffected.
	assert.NotNil(t, resp.AstronomicalEvents)
	assert.Equal(t, 51.6424, resp.LocationInfo.Latitude)
	assert.NotNil(t, resp.Elevation)
}

func TestLookup_ISSFailureScopedToPasses(t *testing.T) {
	f := newTestFixture(t)
	f.passes.err = errors.New("open notify down")

	resp, err := f.service.Lookup(context.Background(), types.NewCoords(51.6424, 15.1372))
	require.NoError(t, err)

	require.NotNil(t, resp.AstronomicalEvents)
	assert.Empty(t, resp.AstronomicalEvents.ISSPasses)
	assert.Contains(t, resp.Errors, "iss_passes")
	assert.NotContains(t, resp.Errors, "astronomical_events")
}

func TestLookup_InvalidCoordinates(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.service.Lookup(context.Background(), types.NewCoords(91, 0))
	assert.ErrorIs(t, err, types.ErrInvalidLatitude)

	_, err = f.service.Lookup(context.Background(), types.NewCoords(0, -181))
	assert.ErrorIs(t, err, types.ErrInvalidLongitude)
}

func TestLookup_CachesSuccessfulResponses(t *testing.T) {
	f := newTestFixture(t)
	coords := types.NewCoords(51.6424, 15.1372)

	_, err := f.service.Lookup(context.Background(), coords)
	require.NoError(t, err)
	_, err = f.service.Lookup(context.Background(), coords)
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.terrain.terrainCalls.Load(), "second lookup should hit the cache")
}

func TestLookup_DoesNotCacheFailedResponses(t *testing.T) {
	f := newTestFixture(t)
	f.forecast.err = errors.New("forecast unavailable")
	coords := types.NewCoords(51.6424, 15.1372)

	_, err := f.service.Lookup(context.Background(), coords)
	require.NoError(t, err)
	_, err = f.service.Lookup(context.Background(), coords)
	require.NoError(t, err)

	assert.Equal(t, int32(2), f.terrain.terrainCalls.Load(), "failed responses must not be memoized")
}

func TestLookupCity(t *testing.T) {
	f := newTestFixture(t)

	resp, err := f.service.LookupCity(context.Background(), "Warsaw")
	require.NoError(t, err)

	assert.Equal(t, "Warsaw, Masovian Voivodeship, Poland", resp.LocationInfo.DisplayName)
	assert.InDelta(t, 52.2319581, resp.LocationInfo.Latitude, 1e-9)
	assert.InDelta(t, 21.0067249, resp.LocationInfo.Longitude, 1e-9)
	assert.NotNil(t, resp.Elevation)
}

func TestLookupCity_NotFound(t *testing.T) {
	f := newTestFixture(t)
	f.geocode.err = nominatim.ErrNoResults
	f.geocode.result = nil

	_, err := f.service.LookupCity(context.Background(), "Nowheresville")
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestLookupCity_DisplayNameDoesNotLeakIntoCache(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.service.LookupCity(context.Background(), "Warsaw")
	require.NoError(t, err)

	resp, err := f.service.Lookup(context.Background(), types.NewCoords(52.2319581, 21.0067249))
	require.NoError(t, err)
	assert.Empty(t, resp.LocationInfo.DisplayName, "cached response must not carry another request's display name")
}
