package urban

import (
	"errors"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/tidwall/rtree"

	"terrasky/internal/types"
)

// ErrNoPlaces is returned when there are no urban centers to rank, typically
// because the query point is far from any city or town.
var ErrNoPlaces = errors.New("no urban centers to rank")

// Place is a named settlement candidate for distance ranking.
type Place struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// RankByDistance returns every place with its great-circle distance from the
// point in kilometers, sorted nearest first, along with the nearest place.
// The nearest place is selected via a spatial index queried with great-circle
// distance, so it always carries the minimum of the ranked distances.
func RankByDistance(latitude, longitude float64, places []Place) ([]types.UrbanCenter, types.UrbanCenter, error) {
	if len(places) == 0 {
		return nil, types.UrbanCenter{}, ErrNoPlaces
	}

	var index rtree.RTreeG[Place]
	for _, place := range places {
		point := [2]float64{place.Longitude, place.Latitude}
		index.Insert(point, point, place)
	}

	origin := orb.Point{longitude, latitude}

	centers := make([]types.UrbanCenter, 0, len(places))
	for _, place := range places {
		centers = append(centers, types.UrbanCenter{
			Name:      place.Name,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
			Distance:  distanceKm(origin, place),
		})
	}
	sort.Slice(centers, func(i, j int) bool {
		return centers[i].Distance < centers[j].Distance
	})

	var nearestPlace Place
	index.Nearby(
		func(min, max [2]float64, _ Place, _ bool) float64 {
			// Great-circle kilometers to the closest point of the box. Leaf
			// boxes are degenerate, so for places this is the exact distance;
			// degree-space box distance misranks at high latitudes.
			clamped := orb.Point{
				math.Min(math.Max(longitude, min[0]), max[0]),
				math.Min(math.Max(latitude, min[1]), max[1]),
			}
			return geo.DistanceHaversine(origin, clamped) / 1000
		},
		func(min, max [2]float64, data Place, dist float64) bool {
			nearestPlace = data
			return false
		},
	)

	nearest := types.UrbanCenter{
		Name:      nearestPlace.Name,
		Latitude:  nearestPlace.Latitude,
		Longitude: nearestPlace.Longitude,
		Distance:  distanceKm(origin, nearestPlace),
	}

	return centers, nearest, nil
}

func distanceKm(origin orb.Point, place Place) float64 {
	return geo.DistanceHaversine(origin, orb.Point{place.Longitude, place.Latitude}) / 1000
}
