package astronomy

import (
	"errors"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/rise"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Standard altitudes at apparent rise or set, mean refraction included.
// The lunar value is a mean that ignores parallax variation.
var (
	stdh0Stellar   = unit.AngleFromDeg(-0.5667)
	stdh0Solar     = unit.AngleFromDeg(-0.8333)
	stdh0LunarMean = unit.AngleFromDeg(0.125)
)

// observer converts geographic coordinates to the convention the rise and
// coord packages use: longitude measured positive westward.
func observer(latitude, longitude float64) globe.Coord {
	return globe.Coord{
		Lat: unit.AngleFromDeg(latitude),
		Lon: unit.AngleFromDeg(-longitude),
	}
}

func midnightUTC(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// approxRiseSet computes the rise and set times of a body on the given UTC
// day from its equatorial coordinates. Nil times mean the body stays above
// or below the horizon all day.
func approxRiseSet(date time.Time, latitude, longitude float64, α unit.RA, δ unit.Angle, h0 unit.Angle) (riseAt, setAt *time.Time, err error) {
	day := midnightUTC(date)
	jd := julian.TimeToJD(day)
	Th0 := sidereal.Apparent0UT(jd)

	tRise, _, tSet, err := rise.ApproxTimes(observer(latitude, longitude), h0, Th0, α, δ)
	if err != nil {
		if errors.Is(err, rise.ErrorCircumpolar) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	r := day.Add(time.Duration(tRise.Sec() * float64(time.Second)))
	s := day.Add(time.Duration(tSet.Sec() * float64(time.Second)))
	return &r, &s, nil
}

// sunRiseSet computes sunrise and sunset for the UTC day of the given date.
func sunRiseSet(date time.Time, latitude, longitude float64) (*time.Time, *time.Time, error) {
	noon := midnightUTC(date).Add(12 * time.Hour)
	α, δ := solar.ApparentEquatorial(julian.TimeToJD(noon))
	return approxRiseSet(date, latitude, longitude, α, δ, stdh0Solar)
}

// moonRiseSet computes moonrise and moonset for the UTC day of the given
// date. The Moon's position is taken at local solar noon, which keeps the
// approximation within a few minutes despite its fast motion.
func moonRiseSet(date time.Time, latitude, longitude float64) (*time.Time, *time.Time, error) {
	noon := midnightUTC(date).Add(12 * time.Hour)
	jde := julian.TimeToJD(noon)

	λ, β, _ := moonposition.Position(jde)
	ε := nutation.MeanObliquity(jde)
	sε, cε := math.Sincos(ε.Rad())
	α, δ := coord.EclToEq(λ, β, sε, cε)

	return approxRiseSet(date, latitude, longitude, α, δ, stdh0LunarMean)
}
