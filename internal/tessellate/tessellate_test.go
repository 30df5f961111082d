package tessellate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/sells-group/zonemesh/internal/geometry"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/partition"
)

var unitBox = model.BBox{MinLat: 0, MaxLat: 1, MinLng: 0, MaxLng: 1}

func boxArea(b model.BBox) float64 {
	return (b.MaxLat - b.MinLat) * (b.MaxLng - b.MinLng)
}

func randomSites(n int, seed uint64) []model.LatLng {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]model.LatLng, n)
	for i := range out {
		out[i] = model.LatLng{Lat: r.Float64(), Lng: r.Float64()}
	}
	return out
}

func inRing(ring model.Ring, p model.LatLng) bool {
	return xy.IsPointInRing(geom.XY, geom.Coord{p.Lng, p.Lat}, geometry.ToLinearRing(ring).FlatCoords())
}

func nearest(sites []model.LatLng, p model.LatLng) int {
	best, bestD := 0, -1.0
	for i, s := range sites {
		d := (s.Lat-p.Lat)*(s.Lat-p.Lat) + (s.Lng-p.Lng)*(s.Lng-p.Lng)
		if bestD < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func TestCells_Empty(t *testing.T) {
	assert.Nil(t, Cells(nil, unitBox, DefaultFallbackHalfWidth))
}

func TestCells_SingleSiteIsWholeBox(t *testing.T) {
	cells := Cells([]model.LatLng{{Lat: 0.3, Lng: 0.7}}, unitBox, DefaultFallbackHalfWidth)
	require.Len(t, cells, 1)
	assert.Equal(t, geometry.BoxRing(unitBox), cells[0])
}

func TestCells_TwoSitesSplitAtBisector(t *testing.T) {
	sites := []model.LatLng{{Lat: 0.25, Lng: 0.5}, {Lat: 0.75, Lng: 0.5}}

	cells := Cells(sites, unitBox, DefaultFallbackHalfWidth)
	require.Len(t, cells, 2)
	assert.InDelta(t, 0.5, geometry.Area(cells[0]), 1e-12)
	assert.InDelta(t, 0.5, geometry.Area(cells[1]), 1e-12)
	for _, p := range cells[0] {
		assert.LessOrEqual(t, p.Lat, 0.5+1e-12)
	}
	for _, p := range cells[1] {
		assert.GreaterOrEqual(t, p.Lat, 0.5-1e-12)
	}
}

func TestCells_CollinearSites(t *testing.T) {
	sites := []model.LatLng{{Lat: 0.5, Lng: 0.1}, {Lat: 0.5, Lng: 0.5}, {Lat: 0.5, Lng: 0.9}}

	cells := Cells(sites, unitBox, DefaultFallbackHalfWidth)
	require.Len(t, cells, 3)
	assert.InDelta(t, 0.3, geometry.Area(cells[0]), 1e-12)
	assert.InDelta(t, 0.4, geometry.Area(cells[1]), 1e-12)
	assert.InDelta(t, 0.3, geometry.Area(cells[2]), 1e-12)
}

func TestCells_TilesBox(t *testing.T) {
	sites := randomSites(300, 1)

	cells := Cells(sites, unitBox, DefaultFallbackHalfWidth)
	require.Len(t, cells, len(sites))

	var total float64
	for i, c := range cells {
		require.GreaterOrEqual(t, len(c), 3, "cell %d", i)
		assert.Greater(t, geometry.SignedArea(c), 0.0, "cell %d must wind counter-clockwise", i)
		for _, p := range c {
			assert.True(t, geometry.Contains(geometry.Pad(unitBox, 1e-9), p))
		}
		total += geometry.Area(c)
	}
	assert.InDelta(t, boxArea(unitBox), total, 1e-9)
}

func TestCells_ProbesLandInNearestSiteCell(t *testing.T) {
	sites := randomSites(64, 2)
	cells := Cells(sites, unitBox, DefaultFallbackHalfWidth)

	for _, p := range randomSites(500, 3) {
		want := nearest(sites, p)
		assert.True(t, inRing(cells[want], p), "probe %+v not in cell of nearest site %d", p, want)
	}
}

func TestCells_SiteInsideOwnCell(t *testing.T) {
	sites := randomSites(40, 4)
	cells := Cells(sites, unitBox, DefaultFallbackHalfWidth)

	for i, s := range sites {
		assert.True(t, inRing(cells[i], s), "site %d", i)
	}
}

func TestCells_DuplicateSiteGetsFallbackSquare(t *testing.T) {
	sites := []model.LatLng{
		{Lat: 0.2, Lng: 0.2},
		{Lat: 0.8, Lng: 0.8},
		{Lat: 0.2, Lng: 0.8},
		{Lat: 0.2, Lng: 0.2},
	}

	cells := Cells(sites, unitBox, 0.001)
	require.Len(t, cells, 4)
	assert.Equal(t, geometry.Square(sites[3], 0.001), cells[3])
	assert.Greater(t, geometry.Area(cells[0]), 0.1)
}

func TestCells_Deterministic(t *testing.T) {
	sites := randomSites(128, 5)
	a := Cells(sites, unitBox, DefaultFallbackHalfWidth)
	b := Cells(sites, unitBox, DefaultFallbackHalfWidth)
	assert.Equal(t, a, b)
}

func TestTessellate_UsesPaddedBounds(t *testing.T) {
	clusters := []partition.Cluster{{Centroid: model.LatLng{Lat: 6.25, Lng: -75.57}}}
	bounds := model.BBox{MinLat: 6.2, MaxLat: 6.3, MinLng: -75.6, MaxLng: -75.5}

	rings := Tessellate(clusters, bounds, DefaultOptions())
	require.Len(t, rings, 1)
	assert.Equal(t, geometry.BoxRing(geometry.Pad(bounds, DefaultPadding)), rings[0])
}

func TestTessellate_OrderMatchesClusters(t *testing.T) {
	sites := randomSites(10, 6)
	clusters := make([]partition.Cluster, len(sites))
	for i, s := range sites {
		clusters[i] = partition.Cluster{Centroid: s}
	}

	rings := Tessellate(clusters, unitBox, DefaultOptions())
	require.Len(t, rings, len(clusters))
	for i, s := range sites {
		assert.True(t, inRing(rings[i], s), "cluster %d", i)
	}
}

func TestClipHalfPlane(t *testing.T) {
	square := toVecs(geometry.BoxRing(unitBox))

	// Keep x <= 0.25.
	out := clipHalfPlane(square, 1, 0, 0.25)
	ring := fromVecs(out)
	assert.InDelta(t, 0.25, geometry.Area(ring), 1e-12)

	// Half-plane that excludes everything.
	assert.Empty(t, clipHalfPlane(square, 1, 0, -1))

	// Half-plane that keeps everything.
	assert.Len(t, clipHalfPlane(square, 1, 0, 2), 4)
}
