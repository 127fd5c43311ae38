// Package geometry walks a decoded road polyline and locates the
// coordinate at a given mile offset using great-circle segment lengths.
// It is independent of the router's own notion of distance: leg
// distances come from the router, but stop-placement coordinates come
// from this package's polyline walk.
package geometry

import (
	"math"

	"github.com/draymaster/hos-planner-service/internal/domain"
)

const earthRadiusMiles = 3959.0

// HaversineMiles returns the great-circle distance between two points.
func HaversineMiles(a, b domain.Coordinate) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// PointAtMile interpolates the coordinate at targetMiles along geometry,
// accumulating haversine segment lengths. A non-positive target returns
// the first point; a target beyond the polyline's total length returns
// the last point.
func PointAtMile(geometry []domain.Coordinate, targetMiles float64) domain.Coordinate {
	if len(geometry) == 0 {
		return domain.Coordinate{}
	}
	if len(geometry) == 1 || targetMiles <= 0 {
		return geometry[0]
	}

	cumulative := 0.0
	for i := 0; i < len(geometry)-1; i++ {
		p0 := geometry[i]
		p1 := geometry[i+1]
		segmentLength := HaversineMiles(p0, p1)

		if cumulative+segmentLength >= targetMiles {
			if segmentLength == 0 {
				return p0
			}
			ratio := (targetMiles - cumulative) / segmentLength
			return domain.Coordinate{
				Lat: p0.Lat + ratio*(p1.Lat-p0.Lat),
				Lng: p0.Lng + ratio*(p1.Lng-p0.Lng),
			}
		}
		cumulative += segmentLength
	}

	return geometry[len(geometry)-1]
}
