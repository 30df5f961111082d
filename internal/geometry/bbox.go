// Package geometry provides planar helpers over lat/lng rings: bounding
// boxes, shoelace area and conversions to go-geom types. Coordinates are
// treated as a flat plane in degree units with x = lng and y = lat.
package geometry

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/zonemesh/internal/model"
)

// Bounds returns the bounding box of the given positions. The second
// return value is false when points is empty.
func Bounds(points []model.LatLng) (model.BBox, bool) {
	if len(points) == 0 {
		return model.BBox{}, false
	}
	b := geom.NewMultiPointFlat(geom.XY, flatCoords(points)).Bounds()
	return model.BBox{
		MinLat: b.Min(1),
		MaxLat: b.Max(1),
		MinLng: b.Min(0),
		MaxLng: b.Max(0),
	}, true
}

// Pad grows b by margin degrees on every side.
func Pad(b model.BBox, margin float64) model.BBox {
	return model.BBox{
		MinLat: b.MinLat - margin,
		MaxLat: b.MaxLat + margin,
		MinLng: b.MinLng - margin,
		MaxLng: b.MaxLng + margin,
	}
}

// BoxRing returns the four corners of b as a counter-clockwise ring.
func BoxRing(b model.BBox) model.Ring {
	return model.Ring{
		{Lat: b.MinLat, Lng: b.MinLng},
		{Lat: b.MinLat, Lng: b.MaxLng},
		{Lat: b.MaxLat, Lng: b.MaxLng},
		{Lat: b.MaxLat, Lng: b.MinLng},
	}
}

// Square returns a counter-clockwise square ring centred on c.
func Square(c model.LatLng, halfWidth float64) model.Ring {
	return BoxRing(model.BBox{
		MinLat: c.Lat - halfWidth,
		MaxLat: c.Lat + halfWidth,
		MinLng: c.Lng - halfWidth,
		MaxLng: c.Lng + halfWidth,
	})
}

// Contains reports whether p lies inside or on the edge of b.
func Contains(b model.BBox, p model.LatLng) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// flatCoords converts positions to go-geom XY flat coordinates.
func flatCoords(points []model.LatLng) []float64 {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.Lng, p.Lat)
	}
	return flat
}
