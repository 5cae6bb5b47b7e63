package overpass

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_GetTerrainTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.Form.Get("data")
		assert.Contains(t, query, `node["natural"]`)
		assert.Contains(t, query, "around:100")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements": [
			{"type": "way", "id": 1, "tags": {"natural": "wood"}},
			{"type": "node", "id": 2, "tags": {"natural": "water"}},
			{"type": "way", "id": 3, "tags": {"natural": "wood"}},
			{"type": "node", "id": 4, "tags": {"highway": "residential"}}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	terrainTypes, err := c.GetTerrainTypes(context.Background(), 51.5518, 15.3354)
	require.NoError(t, err)
	assert.Equal(t, []string{"water", "wood"}, terrainTypes)
}

func TestClient_GetTerrainTypes_NoneTagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	terrainTypes, err := c.GetTerrainTypes(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, terrainTypes)
}

func TestClient_GetUrbanCenters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.Form.Get("data")
		assert.Contains(t, query, `node["place"="city"]`)
		assert.Contains(t, query, `node["place"="town"]`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements": [
			{"type": "node", "id": 1, "lat": 51.9356, "lon": 15.5062, "tags": {"place": "city", "name": "Zielona Góra"}},
			{"type": "node", "id": 2, "lat": 51.6418, "lon": 15.1278, "tags": {"place": "town", "name": "Żagań"}},
			{"type": "node", "id": 3, "lat": 51.7, "lon": 15.2, "tags": {"place": "town"}}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	centers, err := c.GetUrbanCenters(context.Background(), 51.5518, 15.3354, 25)
	require.NoError(t, err)
	require.Len(t, centers, 2, "unnamed places are skipped")
	assert.Equal(t, "Zielona Góra", centers[0].Name)
	assert.Equal(t, "Żagań", centers[1].Name)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.GetTerrainTypes(context.Background(), 51.5518, 15.3354)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestBoundingBox(t *testing.T) {
	bbox := boundingBox(51.5518, 15.3354, 25)
	parts := strings.Split(bbox, ",")
	require.Len(t, parts, 4)

	// south < north, west < east
	assert.Less(t, parts[0], parts[2])
	assert.Less(t, parts[1], parts[3])
}

func TestBoundingBox_ClampsAtPole(t *testing.T) {
	bbox := boundingBox(90, 0, 50)
	parts := strings.Split(bbox, ",")
	require.Len(t, parts, 4)

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		require.NoError(t, err, "part %d is not a finite number: %q", i, part)
		require.False(t, math.IsInf(v, 0), "part %d is infinite", i)
		values[i] = v
	}

	south, west, north, east := values[0], values[1], values[2], values[3]
	assert.GreaterOrEqual(t, south, -90.0)
	assert.Equal(t, 90.0, north)
	assert.Equal(t, -180.0, west)
	assert.Equal(t, 180.0, east)
}
