package types

// LocationInfo identifies the resolved point a response describes. It is
// derived locally from the request coordinates and is always present, even
// when every upstream source fails.
type LocationInfo struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
}
