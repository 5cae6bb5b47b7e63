package aggregator

import "terrasky/internal/types"

// Response is the aggregated lookup result. Sections are omitted when their
// upstream source failed; each failure is recorded in Errors keyed by
// section name. LocationInfo is computed locally and always present.
type Response struct {
	TerrainTypes            []string                  `json:"terrain_types,omitempty"`
	Elevation               *types.Elevation          `json:"elevation,omitempty"`
	LocationInfo            types.LocationInfo        `json:"location_info"`
	UrbanCenters            []types.UrbanCenter       `json:"urban_centers,omitempty"`
	NearestUrbanCenter      *types.UrbanCenter        `json:"nearest_urban_center,omitempty"`
	DistanceFromUrbanCenter *float64                  `json:"distance_from_urban_center,omitempty"`
	CurrentWeather          *types.CurrentWeather     `json:"current_weather,omitempty"`
	HourlyWeather           []types.HourlyWeather     `json:"hourly_weather,omitempty"`
	DailyWeather            []types.DailyWeather      `json:"daily_weather,omitempty"`
	AstronomicalEvents      *types.AstronomicalEvents `json:"astronomical_events,omitempty"`
	Errors                  map[string]string         `json:"errors,omitempty"`
}
