package aggregator

import (
	"time"

	"terrasky/internal/providers/openmeteo"
	"terrasky/internal/providers/opennotify"
	"terrasky/internal/types"
)

// Open-Meteo returns local timestamps without a zone offset.
const openMeteoTimeLayout = "2006-01-02T15:04"

// parseLocalTime interprets an Open-Meteo timestamp in the given location.
// Malformed values fall back to the zero time rather than failing the whole
// weather section.
func parseLocalTime(value string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(openMeteoTimeLayout, value, loc)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}

// mapForecastResponse converts the raw forecast payload into presentation
// types, localizing all timestamps to loc.
func mapForecastResponse(apiResp *openmeteo.ForecastAPIResponse, loc *time.Location) (*types.CurrentWeather, []types.HourlyWeather, []types.DailyWeather) {
	current := &types.CurrentWeather{
		Time:            parseLocalTime(apiResp.Current.Time, loc),
		Temperature2m:   apiResp.Current.Temperature2m,
		IsDay:           apiResp.Current.IsDay == 1,
		Precipitation:   apiResp.Current.Precipitation,
		CloudCover:      apiResp.Current.CloudCover,
		CloudCoverEmoji: types.CloudCoverEmoji(apiResp.Current.CloudCover),
	}

	hourly := make([]types.HourlyWeather, 0, len(apiResp.Hourly.Time))
	for i, stamp := range apiResp.Hourly.Time {
		entry := types.HourlyWeather{Date: parseLocalTime(stamp, loc)}
		if i < len(apiResp.Hourly.Temperature2m) {
			entry.Temperature2m = apiResp.Hourly.Temperature2m[i]
		}
		if i < len(apiResp.Hourly.PrecipitationProbability) {
			entry.PrecipitationProbability = apiResp.Hourly.PrecipitationProbability[i]
		}
		if i < len(apiResp.Hourly.Precipitation) {
			entry.Precipitation = apiResp.Hourly.Precipitation[i]
		}
		if i < len(apiResp.Hourly.CloudCover) {
			entry.CloudCover = apiResp.Hourly.CloudCover[i]
			entry.CloudCoverEmoji = types.CloudCoverEmoji(entry.CloudCover)
		}
		if i < len(apiResp.Hourly.Visibility) {
			entry.Visibility = apiResp.Hourly.Visibility[i]
		}
		if i < len(apiResp.Hourly.IsDay) {
			entry.IsDay = apiResp.Hourly.IsDay[i] == 1
		}
		hourly = append(hourly, entry)
	}

	daily := make([]types.DailyWeather, 0, len(apiResp.Daily.Time))
	for i, stamp := range apiResp.Daily.Time {
		entry := types.DailyWeather{Date: parseLocalTime(stamp, loc)}
		if i < len(apiResp.Daily.PrecipitationProbabilityMax) {
			entry.PrecipitationProbabilityMax = apiResp.Daily.PrecipitationProbabilityMax[i]
		}
		daily = append(daily, entry)
	}

	return current, hourly, daily
}

// mapPasses converts raw ISS pass predictions into presentation types.
func mapPasses(apiResp *opennotify.PassAPIResponse) []types.ISSPass {
	passes := make([]types.ISSPass, 0, len(apiResp.Response))
	for _, pass := range apiResp.Response {
		passes = append(passes, types.ISSPass{
			RiseTime:        time.Unix(pass.Risetime, 0).UTC(),
			DurationSeconds: pass.Duration,
		})
	}
	return passes
}
