package types

import "time"

type CurrentWeather struct {
	Time            time.Time `json:"time"`
	Temperature2m   float64   `json:"temperature_2m"`
	IsDay           bool      `json:"is_day"`
	Precipitation   float64   `json:"precipitation"`
	CloudCover      float64   `json:"cloud_cover"`
	CloudCoverEmoji string    `json:"cloud_cover_emoji"`
}

type HourlyWeather struct {
	Date                     time.Time `json:"date"`
	Temperature2m            float64   `json:"temperature_2m"`
	PrecipitationProbability float64   `json:"precipitation_probability"`
	Precipitation            float64   `json:"precipitation"`
	CloudCover               float64   `json:"cloud_cover"`
	CloudCoverEmoji          string    `json:"cloud_cover_emoji"`
	Visibility               float64   `json:"visibility"`
	IsDay                    bool      `json:"is_day"`
}

type DailyWeather struct {
	Date                        time.Time `json:"date"`
	PrecipitationProbabilityMax float64   `json:"precipitation_probability_max"`
}

// CloudCoverEmoji maps a cloud cover percentage to the emoji shown next to
// weather entries in the UI.
func CloudCoverEmoji(cloudCover float64) string {
	switch {
	case cloudCover <= 25:
		return "☀️"
	case cloudCover <= 50:
		return "🌤️"
	case cloudCover <= 75:
		return "⛅"
	default:
		return "☁️"
	}
}
