package astronomy

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"terrasky/internal/types"
)

// Planets closer than this in both altitude and azimuth count as a
// conjunction.
const conjunctionThresholdDeg = 1.0

// Service computes the astronomical events for a point and date.
type Service interface {
	Events(date time.Time, latitude, longitude float64) (*types.AstronomicalEvents, error)
}

type service struct {
	ephemeris    *Ephemeris
	ephemerisErr string
	logger       *slog.Logger
}

// NewService builds the astronomy service. When the VSOP87 data files are
// missing from ephemerisDir, planetary events are disabled and reported via
// the planets_error field while sun, moon, and shower data keep working.
func NewService(ephemerisDir string, logger *slog.Logger) Service {
	svc := &service{
		logger: logger.With("component", "astronomy-service"),
	}

	ephemeris, err := NewEphemeris(ephemerisDir)
	if err != nil {
		svc.logger.Warn("planetary ephemeris unavailable, planet events disabled",
			"dir", ephemerisDir,
			"error", err,
		)
		svc.ephemerisErr = fmt.Sprintf("planetary positions unavailable: %v", err)
		return svc
	}

	svc.ephemeris = ephemeris
	return svc
}

func (s *service) Events(date time.Time, latitude, longitude float64) (*types.AstronomicalEvents, error) {
	events := &types.AstronomicalEvents{
		MeteorShowers:  ActiveShowers(date),
		VisiblePlanets: []types.VisiblePlanet{},
		Conjunctions:   []types.Conjunction{},
	}

	sunrise, sunset, err := sunRiseSet(date, latitude, longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sun rise and set: %w", err)
	}
	events.SunInfo = types.SunInfo{Sunrise: sunrise, Sunset: sunset}

	moonrise, moonset, err := moonRiseSet(date, latitude, longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to compute moon rise and set: %w", err)
	}
	events.MoonInfo = types.MoonInfo{
		Moonrise:  moonrise,
		Moonset:   moonset,
		MoonPhase: MoonPhaseName(date),
	}

	if s.ephemeris == nil {
		events.PlanetsError = s.ephemerisErr
		return events, nil
	}

	positions := s.ephemeris.Positions(date, latitude, longitude)
	for _, p := range positions {
		if p.Altitude <= 0 {
			continue
		}
		events.VisiblePlanets = append(events.VisiblePlanets, types.VisiblePlanet{
			Planet:   p.Name,
			RiseTime: p.RiseTime,
			Altitude: p.Altitude,
			Azimuth:  p.Azimuth,
		})
	}
	events.Conjunctions = findConjunctions(positions, date)

	s.logger.Debug("astronomical events computed",
		"date", date.Format("2006-01-02"),
		"visible_planets", len(events.VisiblePlanets),
		"conjunctions", len(events.Conjunctions),
		"meteor_showers", len(events.MeteorShowers),
	)

	return events, nil
}

// findConjunctions reports each unordered planet pair whose altitude and
// azimuth both differ by less than the threshold at the reference time.
func findConjunctions(positions []PlanetPosition, at time.Time) []types.Conjunction {
	conjunctions := []types.Conjunction{}
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			a, b := positions[i], positions[j]
			if math.Abs(a.Altitude-b.Altitude) >= conjunctionThresholdDeg {
				continue
			}
			if azimuthSeparation(a.Azimuth, b.Azimuth) >= conjunctionThresholdDeg {
				continue
			}
			conjunctions = append(conjunctions, types.Conjunction{
				Description: fmt.Sprintf("%s-%s", a.Name, b.Name),
				Time:        at.UTC(),
			})
		}
	}
	return conjunctions
}

// azimuthSeparation returns the smaller arc between two azimuths in degrees.
func azimuthSeparation(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}
