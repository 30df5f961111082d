package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/zonemesh/internal/geometry"
	"github.com/sells-group/zonemesh/internal/model"
)

// FeatureCollection converts zones to GeoJSON features with closed polygon
// rings. Zones with fewer than 3 vertices are skipped.
func FeatureCollection(zones []model.Zone) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(zones))}
	for i := range zones {
		z := &zones[i]
		if len(z.Polygon) < 3 {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         z.ID,
			Geometry:   geometry.ToPolygon(z.Polygon),
			Properties: Properties(z),
		})
	}
	return fc
}

// MarshalGeoJSON encodes zones as a GeoJSON FeatureCollection.
func MarshalGeoJSON(zones []model.Zone) ([]byte, error) {
	data, err := json.Marshal(FeatureCollection(zones))
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal geojson")
	}
	return data, nil
}

// WriteGeoJSON writes zones to w as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, zones []model.Zone) error {
	data, err := MarshalGeoJSON(zones)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write geojson")
	}
	return nil
}
