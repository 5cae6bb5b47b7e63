package astronomy

import (
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonillum"
)

// MoonPhaseName returns a common name for the Moon's phase on the given
// date, derived from the illuminated fraction at noon UTC and whether it is
// increasing.
func MoonPhaseName(date time.Time) string {
	jd := julian.TimeToJD(midnightUTC(date).Add(12 * time.Hour))
	fraction := base.Illuminated(moonillum.PhaseAngle3(jd))
	nextFraction := base.Illuminated(moonillum.PhaseAngle3(jd + 1))
	waxing := nextFraction > fraction

	switch {
	case fraction < 0.03:
		return "New Moon"
	case fraction > 0.97:
		return "Full Moon"
	case fraction >= 0.47 && fraction <= 0.53:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case fraction < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
