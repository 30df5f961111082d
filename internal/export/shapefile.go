package export

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/model"
)

// WriteShapefile writes zones as polygon records to path (.shp) and its
// .shx and .dbf siblings. Rings are written clockwise as the format
// requires. String attributes longer than their field are truncated.
func WriteShapefile(path string, zones []model.Zone) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer w.Close()

	fields := make([]shp.Field, len(columns))
	for i, c := range columns {
		switch c.kind {
		case kindString:
			fields[i] = shp.StringField(c.short, c.size)
		case kindInt:
			fields[i] = shp.NumberField(c.short, c.size)
		case kindFloat:
			fields[i] = shp.FloatField(c.short, c.size, c.prec)
		}
	}
	if err := w.SetFields(fields); err != nil {
		return eris.Wrap(err, "export: set shapefile fields")
	}

	var skipped int
	for i := range zones {
		z := &zones[i]
		if len(z.Polygon) < 3 {
			skipped++
			continue
		}
		row := int(w.Write(shapePolygon(z.Polygon)))
		for f, c := range columns {
			v := c.value(z)
			if s, ok := v.(string); ok {
				v = truncate(s, int(c.size))
			}
			if err := w.WriteAttribute(row, f, v); err != nil {
				return eris.Wrapf(err, "export: write %s for zone %s", c.short, z.ID)
			}
		}
	}

	if skipped > 0 {
		zap.L().Debug("export: skipped degenerate zones in shapefile",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return nil
}

// ReadShapefile reads zones written by WriteShapefile. Only the polygon and
// the attributes present in the file are restored.
func ReadShapefile(path string) ([]model.Zone, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		fieldIdx[strings.TrimRight(f.String(), "\x00")] = i
	}
	attr := func(row int, name string) string {
		idx, ok := fieldIdx[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(strings.TrimRight(reader.ReadAttribute(row, idx), "\x00"))
	}
	num := func(row int, name string) float64 {
		v, _ := strconv.ParseFloat(attr(row, name), 64)
		return v
	}

	var zones []model.Zone
	for reader.Next() {
		row, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		zones = append(zones, model.Zone{
			ID:                attr(row, "id"),
			Label:             attr(row, "label"),
			Source:            attr(row, "source"),
			Centroid:          model.LatLng{Lat: num(row, "cen_lat"), Lng: num(row, "cen_lng")},
			Polygon:           ringFromShape(poly),
			Population:        int(num(row, "population")),
			SampleCount:       int(num(row, "samples")),
			MeanAge:           num(row, "mean_age"),
			Education:         attr(row, "education"),
			Interest:          attr(row, "interest"),
			Area:              num(row, "area"),
			RawDensity:        num(row, "raw_dens"),
			NormalizedDensity: num(row, "norm_dens"),
			Tier:              attr(row, "tier"),
		})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "export: read shapefile %s", path)
	}
	return zones, nil
}

// shapePolygon converts an open counter-clockwise ring to a closed
// clockwise shapefile part.
func shapePolygon(ring model.Ring) *shp.Polygon {
	points := make([]shp.Point, 0, len(ring)+1)
	for i := len(ring) - 1; i >= 0; i-- {
		points = append(points, shp.Point{X: ring[i].Lng, Y: ring[i].Lat})
	}
	points = append(points, points[0])
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{points}))
	return &poly
}

// ringFromShape reverses shapePolygon for the first part.
func ringFromShape(poly *shp.Polygon) model.Ring {
	end := len(poly.Points)
	if poly.NumParts > 1 {
		end = int(poly.Parts[1])
	}
	points := poly.Points[:end]
	if n := len(points); n > 1 && points[0] == points[n-1] {
		points = points[:n-1]
	}
	ring := make(model.Ring, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		ring = append(ring, model.LatLng{Lat: points[i].Y, Lng: points[i].X})
	}
	return ring
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
