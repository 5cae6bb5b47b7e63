package types

// UrbanCenter is a named city or town near the queried point. Distance is
// the great-circle distance from the queried point in kilometers, computed
// at request time.
type UrbanCenter struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"`
}
