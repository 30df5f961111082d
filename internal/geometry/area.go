package geometry

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/zonemesh/internal/model"
)

// Area returns the planar shoelace area of ring in square degrees. This is
// not a geodesic area; east-west distances are overstated away from the
// equator. Rings with fewer than three vertices have zero area.
func Area(ring model.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	return math.Abs(ToLinearRing(ring).Area())
}

// SignedArea returns the shoelace area of ring, positive when the ring
// winds counter-clockwise with x = lng and y = lat.
func SignedArea(ring model.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	prev := ring[len(ring)-1]
	for _, p := range ring {
		sum += prev.Lng*p.Lat - p.Lng*prev.Lat
		prev = p
	}
	return sum / 2
}

// ToLinearRing converts ring to a closed go-geom linear ring.
func ToLinearRing(ring model.Ring) *geom.LinearRing {
	return geom.NewLinearRingFlat(geom.XY, closedFlatCoords(ring))
}

// ToPolygon converts ring to a single-ring go-geom polygon in SRID 4326.
func ToPolygon(ring model.Ring) *geom.Polygon {
	flat := closedFlatCoords(ring)
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(4326)
}

// closedFlatCoords returns flat XY coordinates with the first vertex
// repeated at the end.
func closedFlatCoords(ring model.Ring) []float64 {
	flat := flatCoords(ring)
	if len(ring) > 0 {
		first := ring[0]
		last := ring[len(ring)-1]
		if first != last {
			flat = append(flat, first.Lng, first.Lat)
		}
	}
	return flat
}
