package density

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zonemesh/internal/model"
)

func square(size float64) model.Ring {
	return model.Ring{{Lat: 0, Lng: 0}, {Lat: 0, Lng: size}, {Lat: size, Lng: size}, {Lat: size, Lng: 0}}
}

func TestRaw(t *testing.T) {
	m := Raw([]Input{
		{Polygon: square(1), Population: 100},
		{Polygon: square(0.5), Population: 100},
	}, 0)

	require.Len(t, m, 2)
	assert.InDelta(t, 1, m[0].Area, 1e-12)
	assert.InDelta(t, 100, m[0].Raw, 1e-9)
	assert.InDelta(t, 0.25, m[1].Area, 1e-12)
	assert.InDelta(t, 400, m[1].Raw, 1e-9)
}

func TestRaw_DegeneratePolygonUsesMinArea(t *testing.T) {
	m := Raw([]Input{
		{Polygon: model.Ring{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}, Population: 10},
		{Polygon: nil, Population: 5},
		{Polygon: model.Ring{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}, Population: 3},
	}, 1e-6)

	assert.Equal(t, 1e-6, m[0].Area)
	assert.InDelta(t, 10/1e-6, m[0].Raw, 1e-3)
	assert.Equal(t, 1e-6, m[1].Area)
	assert.Equal(t, 1e-6, m[2].Area, "collinear ring has zero area")
}

func TestRaw_DefaultMinArea(t *testing.T) {
	m := Raw([]Input{{Population: 1}}, -1)
	assert.Equal(t, DefaultMinArea, m[0].Area)
}

func TestNormalize(t *testing.T) {
	got := Normalize([]Measure{{Raw: 100}, {Raw: 400}, {Raw: 25}, {Raw: 0}})
	assert.InDeltaSlice(t, []float64{0.5, 1, 0.25, 0}, got, 1e-12)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestNormalize_AllZero(t *testing.T) {
	assert.Equal(t, []float64{0, 0}, Normalize([]Measure{{Raw: 0}, {Raw: 0}}))
}

func TestNormalize_BoundsAndMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	measures := make([]Measure, 500)
	for i := range measures {
		measures[i] = Measure{Raw: r.Float64() * 1e7}
	}
	measures[123].Raw = 2e7

	got := Normalize(measures)
	require.Len(t, got, len(measures))
	assert.Equal(t, 1.0, got[123])

	idx := make([]int, len(measures))
	for i := range idx {
		idx[i] = i
		assert.GreaterOrEqual(t, got[i], 0.0)
		assert.LessOrEqual(t, got[i], 1.0)
	}
	sort.Slice(idx, func(a, b int) bool { return measures[idx[a]].Raw < measures[idx[b]].Raw })
	for i := 1; i < len(idx); i++ {
		assert.GreaterOrEqual(t, got[idx[i]], got[idx[i-1]])
	}
}

func TestTier(t *testing.T) {
	assert.Equal(t, model.TierHigh, Tier(1))
	assert.Equal(t, model.TierHigh, Tier(0.81))
	assert.Equal(t, model.TierMedium, Tier(0.8))
	assert.Equal(t, model.TierMedium, Tier(0.51))
	assert.Equal(t, model.TierLow, Tier(0.5))
	assert.Equal(t, model.TierLow, Tier(0))
}
