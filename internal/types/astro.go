package types

import "time"

// SunInfo holds sunrise and sunset for the query date. A nil time means the
// event does not occur on that date at that latitude (polar day or night).
type SunInfo struct {
	Sunrise *time.Time `json:"sunrise"`
	Sunset  *time.Time `json:"sunset"`
}

type MoonInfo struct {
	Moonrise  *time.Time `json:"moonrise"`
	Moonset   *time.Time `json:"moonset"`
	MoonPhase string     `json:"moon_phase"`
}

// VisiblePlanet is a planet above the local horizon at the reference time.
// Altitude and azimuth describe its position at that moment, in degrees;
// azimuth is measured from north through east.
type VisiblePlanet struct {
	Planet   string     `json:"planet"`
	RiseTime *time.Time `json:"rise_time"`
	Altitude float64    `json:"altitude"`
	Azimuth  float64    `json:"azimuth"`
}

type Conjunction struct {
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
}

// MeteorShower is an entry from the annual working list whose activity
// window contains the query date. Dates are ISO days in the query year.
type MeteorShower struct {
	Name  string `json:"name"`
	ZHR   int    `json:"zhr"`
	Start string `json:"start"`
	Peak  string `json:"peak"`
	End   string `json:"end"`
}

// ISSPass is a predicted International Space Station pass over the queried
// point.
type ISSPass struct {
	RiseTime        time.Time `json:"rise_time_utc"`
	DurationSeconds int       `json:"duration_seconds"`
}

type AstronomicalEvents struct {
	SunInfo        SunInfo         `json:"sun_info"`
	MoonInfo       MoonInfo        `json:"moon_info"`
	VisiblePlanets []VisiblePlanet `json:"visible_planets"`
	Conjunctions   []Conjunction   `json:"conjunctions"`
	MeteorShowers  []MeteorShower  `json:"meteor_showers"`
	ISSPasses      []ISSPass       `json:"iss_passes,omitempty"`

	// PlanetsError is set when planetary positions could not be computed
	// (typically missing VSOP87 ephemeris data); the rest of the section is
	// still valid.
	PlanetsError string `json:"planets_error,omitempty"`
}
