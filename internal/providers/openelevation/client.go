package openelevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// API Docs: https://open-elevation.com/#api-docs
// Sample request: POST https://api.open-elevation.com/api/v1/lookup
// with body {"locations":[{"latitude":51.55,"longitude":15.33}]}
const (
	baseURL = "https://api.open-elevation.com/api/v1/lookup"
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
		logger:     logger.With("component", "openelevation-client"),
	}
}

// GetElevation fetches the elevation in meters for a single coordinate pair.
func (c *Client) GetElevation(ctx context.Context, latitude, longitude float64) (*LookupAPIResponse, error) {
	payload := LookupAPIRequest{
		Locations: []LookupLocation{{Latitude: latitude, Longitude: longitude}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	c.logger.Debug("fetching elevation", "latitude", latitude, "longitude", longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch elevation", "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("elevation API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(respBody),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp LookupAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Results) == 0 {
		return nil, fmt.Errorf("elevation response contains no results")
	}

	return &apiResp, nil
}
