package astronomy

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/elliptic"
	"github.com/soniakeys/meeus/v3/julian"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// The naked-eye planets, in the order they are reported.
var planetBodies = []struct {
	name  string
	ibody int
}{
	{"Mercury", pp.Mercury},
	{"Venus", pp.Venus},
	{"Mars", pp.Mars},
	{"Jupiter", pp.Jupiter},
	{"Saturn", pp.Saturn},
}

// Ephemeris computes apparent planetary positions from VSOP87 data files.
type Ephemeris struct {
	earth  *pp.V87Planet
	bodies []ephemerisBody
}

type ephemerisBody struct {
	name string
	v87  *pp.V87Planet
}

// NewEphemeris loads the VSOP87 data files for Earth and the naked-eye
// planets from dir.
func NewEphemeris(dir string) (*Ephemeris, error) {
	earth, err := pp.LoadPlanetPath(pp.Earth, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load VSOP87 data for Earth: %w", err)
	}

	e := &Ephemeris{earth: earth}
	for _, body := range planetBodies {
		v87, err := pp.LoadPlanetPath(body.ibody, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load VSOP87 data for %s: %w", body.name, err)
		}
		e.bodies = append(e.bodies, ephemerisBody{name: body.name, v87: v87})
	}
	return e, nil
}

// PlanetPosition is a planet's apparent position in the local sky at the
// reference time. Azimuth is degrees from north through east.
type PlanetPosition struct {
	Name     string
	Altitude float64
	Azimuth  float64
	RiseTime *time.Time
}

// Positions computes the local sky position of every tracked planet at the
// given instant, plus its rise time on that UTC day.
func (e *Ephemeris) Positions(at time.Time, latitude, longitude float64) []PlanetPosition {
	jd := julian.TimeToJD(at.UTC())
	st := sidereal.Apparent(jd)
	φ := unit.AngleFromDeg(latitude)
	ψ := unit.AngleFromDeg(-longitude)

	positions := make([]PlanetPosition, 0, len(e.bodies))
	for _, body := range e.bodies {
		α, δ := elliptic.Position(body.v87, e.earth, jd)
		A, h := coord.EqToHz(α, δ, φ, ψ, st)

		// EqToHz measures azimuth westward from south; convert to the
		// compass convention.
		azimuth := math.Mod(A.Deg()+180, 360)
		if azimuth < 0 {
			azimuth += 360
		}

		riseAt, _, err := approxRiseSet(at, latitude, longitude, α, δ, stdh0Stellar)
		if err != nil {
			riseAt = nil
		}

		positions = append(positions, PlanetPosition{
			Name:     body.name,
			Altitude: h.Deg(),
			Azimuth:  azimuth,
			RiseTime: riseAt,
		})
	}
	return positions
}
