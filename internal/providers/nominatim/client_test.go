package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
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

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Warsaw", r.URL.Query().Get("city"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`[{
			"place_id": 1,
			"lat": "52.2319581",
			"lon": "21.0067249",
			"name": "Warsaw",
			"display_name": "Warsaw, Masovian Voivodeship, Poland"
		}]`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Search(context.Background(), "Warsaw")
	require.NoError(t, err)

	lat, lon, err := result.Coordinates()
	require.NoError(t, err)
	assert.InDelta(t, 52.2319581, lat, 1e-9)
	assert.InDelta(t, 21.0067249, lon, 1e-9)
	assert.Equal(t, "Warsaw, Masovian Voivodeship, Poland", result.DisplayName)
}

func TestClient_Search_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), "Nowheresville")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestClient_Search_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Search(context.Background(), "Warsaw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSearchAPIResult_Coordinates_Malformed(t *testing.T) {
	result := SearchAPIResult{Lat: "not-a-number", Lon: "21.0"}
	_, _, err := result.Coordinates()
	assert.Error(t, err)
}
