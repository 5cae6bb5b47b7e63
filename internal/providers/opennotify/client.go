package opennotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// API Docs: http://open-notify.org/Open-Notify-API/ISS-Pass-Times/
// Sample request: http://api.open-notify.org/iss-pass.json?lat=51.55&lon=15.33&n=5
const (
	baseURL = "http://api.open-notify.org/iss-pass.json"

	// The API caps the number of passes per request.
	maxPasses = 100
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
		logger:     logger.With("component", "opennotify-client"),
	}
}

// GetPasses fetches upcoming ISS pass times over the given coordinates.
func (c *Client) GetPasses(ctx context.Context, latitude, longitude float64, numberOfPasses int) (*PassAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	if numberOfPasses > maxPasses {
		numberOfPasses = maxPasses
	}

	q := u.Query()
	q.Set("lat", fmt.Sprintf("%f", latitude))
	q.Set("lon", fmt.Sprintf("%f", longitude))
	q.Set("n", strconv.Itoa(numberOfPasses))
	u.RawQuery = q.Encode()

	c.logger.Debug("fetching ISS passes", "url", u.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch ISS passes", "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("ISS pass API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp PassAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Message != "success" {
		return nil, fmt.Errorf("ISS pass API reported failure: %s", apiResp.Message)
	}

	return &apiResp, nil
}
