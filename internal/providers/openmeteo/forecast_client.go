package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// API Docs: https://open-meteo.com/en/docs
// Sample request: https://api.open-meteo.com/v1/forecast?latitude=51.55&longitude=15.33&current=temperature_2m,is_day,precipitation,cloud_cover&hourly=temperature_2m,precipitation_probability,precipitation,cloud_cover,visibility,is_day&daily=sunrise,sunset,precipitation_probability_max&timezone=Europe%2FBerlin
const (
	baseForecastURL = "https://api.open-meteo.com/v1/forecast"

	// Transient failures are retried with fibonacci backoff.
	maxRetries   = 5
	retryBackoff = 200 * time.Millisecond
)

type ForecastClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewForecastClient(logger *slog.Logger) *ForecastClient {
	return &ForecastClient{
		httpClient: &http.Client{},
		baseURL:    baseForecastURL,
		logger:     logger.With("component", "openmeteo-client"),
	}
}

// GetForecast fetches current, hourly, and daily forecast data for the given
// coordinates. Timestamps in the response are local to the given IANA
// timezone. Network errors, 5xx responses, and undecodable bodies are
// retried; 4xx are not.
func (c *ForecastClient) GetForecast(ctx context.Context, latitude, longitude float64, timezone string, forecastDays int) (*ForecastAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	currentVars := []string{
		"temperature_2m",
		"is_day",
		"precipitation",
		"cloud_cover",
	}

	hourlyVars := []string{
		"temperature_2m",
		"precipitation_probability",
		"precipitation",
		"cloud_cover",
		"visibility",
		"is_day",
	}

	dailyVars := []string{
		"sunrise",
		"sunset",
		"precipitation_probability_max",
	}

	q := u.Query()
	q.Set("latitude", fmt.Sprintf("%f", latitude))
	q.Set("longitude", fmt.Sprintf("%f", longitude))
	q.Set("current", strings.Join(currentVars, ","))
	q.Set("hourly", strings.Join(hourlyVars, ","))
	q.Set("daily", strings.Join(dailyVars, ","))
	q.Set("timezone", timezone)
	q.Set("forecast_days", strconv.Itoa(forecastDays))
	q.Set("timeformat", "iso8601")
	u.RawQuery = q.Encode()

	c.logger.Debug("fetching forecast", "url", u.String())

	var apiResp *ForecastAPIResponse
	backoff := retry.WithMaxRetries(maxRetries, retry.NewFibonacci(retryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		fetched, err := c.fetch(ctx, u.String())
		if err != nil {
			return err
		}
		apiResp = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	return apiResp, nil
}

// fetch performs one attempt and decodes into a fresh response, so a partial
// decode from a failed attempt cannot leak into a later successful one.
func (c *ForecastClient) fetch(ctx context.Context, rawURL string) (*ForecastAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("forecast fetch failed, may retry", "error", err)
		return nil, retry.RetryableError(fmt.Errorf("failed to fetch: %w", err))
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fetchErr := fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
		if resp.StatusCode >= http.StatusInternalServerError {
			c.logger.Warn("forecast API server error, may retry", "status_code", resp.StatusCode)
			return nil, retry.RetryableError(fetchErr)
		}
		c.logger.Error("forecast API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fetchErr
	}

	var apiResp ForecastAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Warn("forecast response decode failed, may retry", "error", err)
		return nil, retry.RetryableError(fmt.Errorf("failed to decode response: %w", err))
	}

	return &apiResp, nil
}
