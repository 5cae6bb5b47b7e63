package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// API Docs: https://wiki.openstreetmap.org/wiki/Overpass_API
// Queries are Overpass QL sent as the "data" form parameter.
const (
	baseURL = "https://overpass-api.de/api/interpreter"

	// terrainRadiusMeters bounds the natural=* search around the point.
	terrainRadiusMeters = 100
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		logger:     logger.With("component", "overpass-client"),
	}
}

// GetTerrainTypes returns the distinct natural=* tag values found near the
// point, sorted alphabetically. An empty slice means no tagged terrain.
func (c *Client) GetTerrainTypes(ctx context.Context, latitude, longitude float64) ([]string, error) {
	query := fmt.Sprintf(`
[out:json];
(
  node["natural"](around:%d,%f,%f);
  way["natural"](around:%d,%f,%f);
  relation["natural"](around:%d,%f,%f);
);
out body;`,
		terrainRadiusMeters, latitude, longitude,
		terrainRadiusMeters, latitude, longitude,
		terrainRadiusMeters, latitude, longitude,
	)

	apiResp, err := c.run(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, element := range apiResp.Elements {
		if natural, ok := element.Tags["natural"]; ok {
			seen[natural] = true
		}
	}

	terrainTypes := make([]string, 0, len(seen))
	for terrain := range seen {
		terrainTypes = append(terrainTypes, terrain)
	}
	sort.Strings(terrainTypes)

	c.logger.Debug("terrain types fetched",
		"latitude", latitude,
		"longitude", longitude,
		"count", len(terrainTypes),
	)

	return terrainTypes, nil
}

// GetUrbanCenters returns named place=city and place=town nodes inside a
// bounding box of roughly radiusKm around the point.
func (c *Client) GetUrbanCenters(ctx context.Context, latitude, longitude float64, radiusKm int) ([]UrbanCenterNode, error) {
	bbox := boundingBox(latitude, longitude, radiusKm)

	query := fmt.Sprintf(`
[out:json];
(
  node["place"="city"](%s);
  node["place"="town"](%s);
);
out body;`, bbox, bbox)

	apiResp, err := c.run(ctx, query)
	if err != nil {
		return nil, err
	}

	centers := make([]UrbanCenterNode, 0, len(apiResp.Elements))
	for _, element := range apiResp.Elements {
		name, ok := element.Tags["name"]
		if !ok {
			continue
		}
		centers = append(centers, UrbanCenterNode{
			Name:      name,
			Latitude:  element.Lat,
			Longitude: element.Lon,
		})
	}

	c.logger.Debug("urban centers fetched",
		"latitude", latitude,
		"longitude", longitude,
		"radius_km", radiusKm,
		"count", len(centers),
	)

	return centers, nil
}

func (c *Client) run(ctx context.Context, query string) (*QueryAPIResponse, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to run overpass query", "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("overpass API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp QueryAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &apiResp, nil
}

// boundingBox returns "south,west,north,east" for a box roughly radiusKm
// around the point, using the flat-earth approximation of km per degree. The
// box is clamped to valid coordinate ranges so polar queries stay finite.
func boundingBox(latitude, longitude float64, radiusKm int) string {
	latOffset := float64(radiusKm) / 111.0

	lonOffset := 180.0
	if cosLat := math.Abs(math.Cos(latitude * math.Pi / 180)); cosLat > 0 {
		lonOffset = math.Min(float64(radiusKm)/(111.0*cosLat), 180)
	}

	return fmt.Sprintf("%f,%f,%f,%f",
		math.Max(latitude-latOffset, -90),
		math.Max(longitude-lonOffset, -180),
		math.Min(latitude+latOffset, 90),
		math.Min(longitude+lonOffset, 180),
	)
}
