package types

const FeetToMeters = 0.3048

type Elevation struct {
	Meters float64 `json:"meters"`
	Feet   float64 `json:"feet"`
}

func NewElevationFromMeters(meters float64) Elevation {
	return Elevation{
		Meters: meters,
		Feet:   meters / FeetToMeters,
	}
}
