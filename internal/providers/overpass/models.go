package overpass

type QueryAPIResponse struct {
	Version   float64        `json:"version"`
	Generator string         `json:"generator"`
	Elements  []QueryElement `json:"elements"`
}

type QueryElement struct {
	Type string            `json:"type"`
	Id   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// UrbanCenterNode is a place node extracted from an Overpass response.
type UrbanCenterNode struct {
	Name      string
	Latitude  float64
	Longitude float64
}
