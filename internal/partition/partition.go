// Package partition splits a population-weighted point set into clusters of
// roughly equal population using an alternating-axis weighted median split.
package partition

import (
	"cmp"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/zonemesh/internal/model"
)

// ErrNegativeDepth is returned when Partition is called with depth < 0.
var ErrNegativeDepth = eris.New("partition: depth must be non-negative")

// Axis selects the coordinate a split is made along.
type Axis int

const (
	AxisLat Axis = iota
	AxisLng
)

// Next returns the axis used one level further down.
func (a Axis) Next() Axis {
	if a == AxisLat {
		return AxisLng
	}
	return AxisLat
}

func (a Axis) String() string {
	if a == AxisLat {
		return "lat"
	}
	return "lng"
}

// Cluster is one leaf of the partition. Centroid is the unweighted mean of
// the member positions.
type Cluster struct {
	Samples  []model.Sample
	Centroid model.LatLng
}

// Population returns the summed population weight of the cluster.
func (c Cluster) Population() int {
	var total int
	for _, s := range c.Samples {
		total += s.Population
	}
	return total
}

type task struct {
	samples []model.Sample
	depth   int
	axis    Axis
	// stalled counts consecutive splits that left samples whole.
	stalled int
}

// Partition splits samples into at most 2^depth clusters. Splits alternate
// between latitude (first) and longitude. Leaves are returned in depth-first,
// left-before-right order. An empty input yields no clusters and no error.
// The input slice is not modified.
func Partition(samples []model.Sample, depth int) ([]Cluster, error) {
	if depth < 0 {
		return nil, ErrNegativeDepth
	}
	if len(samples) == 0 {
		return nil, nil
	}

	work := slices.Clone(samples)
	stack := []task{{samples: work, depth: depth, axis: AxisLat}}
	var clusters []Cluster

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(t.samples) == 0 {
			continue
		}
		if t.depth == 0 || len(t.samples) == 1 {
			clusters = append(clusters, leaf(t.samples))
			continue
		}

		left, right := Split(t.samples, t.axis)
		if len(right) > 0 {
			// Right is pushed first so the left branch is emitted first.
			stack = append(stack,
				task{samples: right, depth: t.depth - 1, axis: t.axis.Next()},
				task{samples: left, depth: t.depth - 1, axis: t.axis.Next()},
			)
			continue
		}

		// One sample outweighs the rest and sorts last on both axes, so no
		// deeper split can separate the set. Leave it in the order the
		// final remaining split would have produced.
		if t.stalled == 1 {
			if (t.depth-1)%2 == 1 {
				sortAlong(left, t.axis.Next())
			}
			clusters = append(clusters, leaf(left))
			continue
		}
		stack = append(stack, task{samples: left, depth: t.depth - 1, axis: t.axis.Next(), stalled: t.stalled + 1})
	}
	return clusters, nil
}

// Split stably sorts samples in place along axis and divides them at the
// weighted median. The sample at which the cumulative population first
// reaches half the total always goes left. Neither half may be appended to
// without copying.
func Split(samples []model.Sample, axis Axis) (left, right []model.Sample) {
	sortAlong(samples, axis)

	var total int
	for _, s := range samples {
		total += s.Population
	}
	target := float64(total) / 2

	splitIndex := 0
	var cum int
	for i, s := range samples {
		cum += s.Population
		if float64(cum) >= target {
			splitIndex = i
			break
		}
	}

	n := splitIndex + 1
	return samples[:n:n], samples[n:len(samples):len(samples)]
}

func sortAlong(samples []model.Sample, axis Axis) {
	slices.SortStableFunc(samples, func(a, b model.Sample) int {
		if axis == AxisLat {
			return cmp.Compare(a.Position.Lat, b.Position.Lat)
		}
		return cmp.Compare(a.Position.Lng, b.Position.Lng)
	})
}

func leaf(samples []model.Sample) Cluster {
	return Cluster{Samples: samples, Centroid: Centroid(samples)}
}

// Centroid returns the unweighted arithmetic mean of the sample positions.
func Centroid(samples []model.Sample) model.LatLng {
	if len(samples) == 0 {
		return model.LatLng{}
	}
	var lat, lng float64
	for _, s := range samples {
		lat += s.Position.Lat
		lng += s.Position.Lng
	}
	n := float64(len(samples))
	return model.LatLng{Lat: lat / n, Lng: lng / n}
}
