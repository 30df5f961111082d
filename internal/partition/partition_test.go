package partition

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zonemesh/internal/model"
)

func sample(lat, lng float64, pop int) model.Sample {
	return model.Sample{Position: model.LatLng{Lat: lat, Lng: lng}, Population: pop}
}

func randomSamples(n int, seed uint64) []model.Sample {
	r := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]model.Sample, n)
	for i := range out {
		out[i] = sample(6.2+r.Float64()*0.1, -75.6+r.Float64()*0.1, 100+r.IntN(20))
	}
	return out
}

func totalPopulation(samples []model.Sample) int {
	var total int
	for _, s := range samples {
		total += s.Population
	}
	return total
}

func TestPartition_UnitSquareDepthOne(t *testing.T) {
	samples := []model.Sample{
		sample(0, 0, 100),
		sample(0, 1, 100),
		sample(1, 0, 100),
		sample(1, 1, 100),
	}

	clusters, err := Partition(samples, 1)
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, 200, clusters[0].Population())
	assert.Equal(t, 200, clusters[1].Population())
	assert.Equal(t, model.LatLng{Lat: 0, Lng: 0.5}, clusters[0].Centroid)
	assert.Equal(t, model.LatLng{Lat: 1, Lng: 0.5}, clusters[1].Centroid)
}

func TestPartition_AlternatesAxis(t *testing.T) {
	samples := []model.Sample{
		sample(1, 1, 100),
		sample(0, 1, 100),
		sample(1, 0, 100),
		sample(0, 0, 100),
	}

	clusters, err := Partition(samples, 2)
	require.NoError(t, err)
	require.Len(t, clusters, 4)

	want := []model.LatLng{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 1, Lng: 0},
		{Lat: 1, Lng: 1},
	}
	for i, c := range clusters {
		require.Len(t, c.Samples, 1)
		assert.Equal(t, want[i], c.Centroid, "cluster %d", i)
	}
}

func TestPartition_EmptyInput(t *testing.T) {
	clusters, err := Partition(nil, 5)
	require.NoError(t, err)
	assert.Empty(t, clusters)
}

func TestPartition_NegativeDepth(t *testing.T) {
	_, err := Partition([]model.Sample{sample(0, 0, 1)}, -1)
	assert.ErrorIs(t, err, ErrNegativeDepth)
}

func TestPartition_DepthZero(t *testing.T) {
	samples := randomSamples(50, 7)

	clusters, err := Partition(samples, 0)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Samples, 50)
	assert.Equal(t, totalPopulation(samples), clusters[0].Population())
}

func TestPartition_ConservesPopulationAndSamples(t *testing.T) {
	samples := randomSamples(1000, 42)

	for depth := 0; depth <= 8; depth++ {
		clusters, err := Partition(samples, depth)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(clusters), 1<<depth)

		var pop, count int
		for _, c := range clusters {
			assert.NotEmpty(t, c.Samples)
			pop += c.Population()
			count += len(c.Samples)
		}
		assert.Equal(t, totalPopulation(samples), pop, "depth %d", depth)
		assert.Equal(t, len(samples), count, "depth %d", depth)
	}
}

func TestPartition_FewerSamplesThanLeaves(t *testing.T) {
	samples := []model.Sample{
		sample(0.1, 0.9, 100),
		sample(0.5, 0.2, 100),
		sample(0.3, 0.4, 100),
		sample(0.9, 0.6, 100),
		sample(0.7, 0.1, 100),
	}

	clusters, err := Partition(samples, 6)
	require.NoError(t, err)
	assert.Len(t, clusters, 5)
}

func TestPartition_HugeDepth(t *testing.T) {
	// 20 outweighs 10 and sorts last on both axes, so that pair never splits.
	samples := []model.Sample{sample(0, 0, 10), sample(1, 1, 20), sample(2, 2, 30)}

	done := make(chan []Cluster, 1)
	go func() {
		clusters, err := Partition(samples, 1<<28)
		assert.NoError(t, err)
		done <- clusters
	}()

	select {
	case clusters := <-done:
		require.Len(t, clusters, 2)
		assert.Equal(t, 30, clusters[0].Population())
		assert.Len(t, clusters[0].Samples, 2)
		assert.Equal(t, 30, clusters[1].Population())
	case <-time.After(2 * time.Second):
		t.Fatal("partition with a huge depth did not finish")
	}
}

// recursivePartition is the direct recursive form of Partition.
func recursivePartition(samples []model.Sample, depth int, axis Axis) []Cluster {
	if len(samples) == 0 {
		return nil
	}
	if depth == 0 {
		return []Cluster{{Samples: samples, Centroid: Centroid(samples)}}
	}
	left, right := Split(samples, axis)
	out := recursivePartition(left, depth-1, axis.Next())
	return append(out, recursivePartition(right, depth-1, axis.Next())...)
}

func TestPartition_MatchesRecursiveForm(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 0))
	for trial := range 200 {
		n := 1 + r.IntN(12)
		samples := make([]model.Sample, n)
		for i := range samples {
			pop := r.IntN(5)
			if r.IntN(4) == 0 {
				pop = 50 + r.IntN(50)
			}
			// Small integer grid so both axes see ties.
			samples[i] = sample(float64(r.IntN(3)), float64(r.IntN(3)), pop)
			samples[i].Source = string(rune('a' + i))
		}
		depth := r.IntN(9)

		got, err := Partition(samples, depth)
		require.NoError(t, err)
		want := recursivePartition(slices.Clone(samples), depth, AxisLat)
		require.Equal(t, want, got, "trial %d depth %d", trial, depth)
	}
}

func TestPartition_DoesNotMutateInput(t *testing.T) {
	samples := randomSamples(200, 11)
	orig := make([]model.Sample, len(samples))
	copy(orig, samples)

	_, err := Partition(samples, 4)
	require.NoError(t, err)
	assert.Equal(t, orig, samples)
}

func TestPartition_Deterministic(t *testing.T) {
	samples := randomSamples(500, 99)

	a, err := Partition(samples, 6)
	require.NoError(t, err)
	b, err := Partition(samples, 6)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPartition_BalancedWithUniformWeights(t *testing.T) {
	samples := make([]model.Sample, 0, 1024)
	r := rand.New(rand.NewPCG(5, 6))
	for range 1024 {
		samples = append(samples, sample(r.Float64(), r.Float64(), 10))
	}

	clusters, err := Partition(samples, 4)
	require.NoError(t, err)
	require.Len(t, clusters, 16)
	for _, c := range clusters {
		assert.InDelta(t, 640, c.Population(), 40)
	}
}

func TestPartition_CoincidentSamples(t *testing.T) {
	samples := make([]model.Sample, 8)
	for i := range samples {
		samples[i] = sample(6.25, -75.57, 50)
	}

	clusters, err := Partition(samples, 2)
	require.NoError(t, err)
	require.Len(t, clusters, 4)
	for _, c := range clusters {
		assert.Equal(t, 100, c.Population())
		assert.Equal(t, model.LatLng{Lat: 6.25, Lng: -75.57}, c.Centroid)
	}
}

func TestSplit_InclusiveLeft(t *testing.T) {
	samples := []model.Sample{
		sample(0, 0, 1),
		sample(1, 0, 1000),
		sample(2, 0, 1),
	}

	left, right := Split(samples, AxisLat)
	require.Len(t, left, 2)
	require.Len(t, right, 1)
	assert.Equal(t, 1001, totalPopulation(left))
	assert.Equal(t, 1, totalPopulation(right))
}

func TestSplit_StableOnTies(t *testing.T) {
	samples := []model.Sample{
		{Position: model.LatLng{Lat: 5, Lng: 3}, Population: 1, Source: "a"},
		{Position: model.LatLng{Lat: 5, Lng: 1}, Population: 1, Source: "b"},
		{Position: model.LatLng{Lat: 5, Lng: 2}, Population: 1, Source: "c"},
		{Position: model.LatLng{Lat: 5, Lng: 0}, Population: 1, Source: "d"},
	}

	left, right := Split(samples, AxisLat)
	require.Len(t, left, 2)
	assert.Equal(t, "a", left[0].Source)
	assert.Equal(t, "b", left[1].Source)
	assert.Equal(t, "c", right[0].Source)
	assert.Equal(t, "d", right[1].Source)
}

func TestSplit_ZeroPopulation(t *testing.T) {
	samples := []model.Sample{sample(0, 0, 0), sample(1, 1, 0), sample(2, 2, 0)}

	left, right := Split(samples, AxisLng)
	assert.Len(t, left, 1)
	assert.Len(t, right, 2)
}

func TestAxis(t *testing.T) {
	assert.Equal(t, AxisLng, AxisLat.Next())
	assert.Equal(t, AxisLat, AxisLng.Next())
	assert.Equal(t, "lat", AxisLat.String())
	assert.Equal(t, "lng", AxisLng.String())
}
