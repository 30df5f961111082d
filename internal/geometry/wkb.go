package geometry

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/zonemesh/internal/model"
)

// EncodeEWKB converts a ring to little-endian EWKB polygon bytes with
// SRID 4326. Returns nil, nil for rings with fewer than three vertices.
func EncodeEWKB(ring model.Ring) ([]byte, error) {
	if len(ring) < 3 {
		return nil, nil
	}
	data, err := ewkb.Marshal(ToPolygon(ring), ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: encode EWKB")
	}
	return data, nil
}
