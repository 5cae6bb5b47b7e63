package openelevation

type LookupAPIRequest struct {
	Locations []LookupLocation `json:"locations"`
}

type LookupLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LookupAPIResponse struct {
	Results []LookupResult `json:"results"`
}

type LookupResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}
