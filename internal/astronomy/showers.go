package astronomy

import (
	"time"

	"terrasky/internal/types"
)

type monthDay struct {
	month time.Month
	day   int
}

type showerWindow struct {
	name  string
	zhr   int
	start monthDay
	peak  monthDay
	end   monthDay
}

// annualShowers is the working list of major annual meteor showers with
// their activity windows, first peak day, and typical zenithal hourly rate.
// All windows fall within a single calendar year.
var annualShowers = []showerWindow{
	{"Quadrantids", 120, monthDay{time.January, 1}, monthDay{time.January, 3}, monthDay{time.January, 5}},
	{"Lyrids", 18, monthDay{time.April, 16}, monthDay{time.April, 22}, monthDay{time.April, 25}},
	{"Eta Aquariids", 50, monthDay{time.April, 19}, monthDay{time.May, 6}, monthDay{time.May, 28}},
	{"Delta Aquariids", 25, monthDay{time.July, 12}, monthDay{time.July, 28}, monthDay{time.August, 23}},
	{"Perseids", 100, monthDay{time.July, 17}, monthDay{time.August, 12}, monthDay{time.August, 24}},
	{"Orionids", 20, monthDay{time.October, 2}, monthDay{time.October, 21}, monthDay{time.November, 7}},
	{"Leonids", 15, monthDay{time.November, 6}, monthDay{time.November, 17}, monthDay{time.November, 30}},
	{"Geminids", 150, monthDay{time.December, 4}, monthDay{time.December, 13}, monthDay{time.December, 17}},
	{"Ursids", 10, monthDay{time.December, 17}, monthDay{time.December, 22}, monthDay{time.December, 26}},
}

func (m monthDay) inYear(year int) time.Time {
	return time.Date(year, m.month, m.day, 0, 0, 0, 0, time.UTC)
}

// ActiveShowers returns the showers whose activity window contains the given
// date. Window boundaries are inclusive.
func ActiveShowers(date time.Time) []types.MeteorShower {
	year := date.Year()
	day := time.Date(year, date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	active := make([]types.MeteorShower, 0)
	for _, shower := range annualShowers {
		start := shower.start.inYear(year)
		end := shower.end.inYear(year)
		if day.Before(start) || day.After(end) {
			continue
		}
		active = append(active, types.MeteorShower{
			Name:  shower.name,
			ZHR:   shower.zhr,
			Start: start.Format("2006-01-02"),
			Peak:  shower.peak.inYear(year).Format("2006-01-02"),
			End:   end.Format("2006-01-02"),
		})
	}
	return active
}
