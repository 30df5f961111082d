// Package mesh runs the full tessellation pipeline: partition samples into
// population-balanced clusters, tile the padded bounds with one polygon per
// cluster, roll up each cluster's statistics and score density.
package mesh

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/aggregate"
	"github.com/sells-group/zonemesh/internal/density"
	"github.com/sells-group/zonemesh/internal/geometry"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/partition"
	"github.com/sells-group/zonemesh/internal/tessellate"
)

// Depth limits accepted by Build.
const (
	DefaultDepth = 10
	MaxDepth     = 16
)

// ErrNegativePopulation rejects a sample with a population weight below zero.
var ErrNegativePopulation = eris.New("mesh: negative population")

// Labeler names a location, returning "" when it has no name for it.
type Labeler interface {
	Label(pos model.LatLng) string
}

// Options configures a pipeline run.
type Options struct {
	Depth             int
	Padding           float64
	FallbackHalfWidth float64
	MinArea           float64
	// Labeler is optional.
	Labeler Labeler
}

// DefaultOptions returns the standard pipeline settings with no labeler.
func DefaultOptions() Options {
	return Options{
		Depth:             DefaultDepth,
		Padding:           tessellate.DefaultPadding,
		FallbackHalfWidth: tessellate.DefaultFallbackHalfWidth,
		MinArea:           density.DefaultMinArea,
	}
}

// Validate checks the options before any work is done.
func (o Options) Validate() error {
	if o.Depth < 0 {
		return partition.ErrNegativeDepth
	}
	if o.Depth > MaxDepth {
		return eris.Errorf("mesh: depth %d exceeds maximum %d", o.Depth, MaxDepth)
	}
	if o.Padding < 0 {
		return eris.Errorf("mesh: negative padding %g", o.Padding)
	}
	if o.FallbackHalfWidth <= 0 {
		return eris.Errorf("mesh: fallback half-width must be positive, got %g", o.FallbackHalfWidth)
	}
	return nil
}

// Result is the output of one pipeline run.
type Result struct {
	Run     model.Run
	Zones   []model.Zone
	Balance Balance
}

// ValidateSamples reports the first sample with a negative population.
func ValidateSamples(samples []model.Sample) error {
	for i, s := range samples {
		if s.Population < 0 {
			return eris.Wrapf(ErrNegativePopulation, "sample %d at %.6f,%.6f has population %d",
				i, s.Position.Lat, s.Position.Lng, s.Population)
		}
	}
	return nil
}

// Build runs the pipeline over samples. An empty sample set is not an error:
// it yields a completed run with no zones.
func Build(samples []model.Sample, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, eris.Wrap(err, "mesh: build")
	}
	if err := ValidateSamples(samples); err != nil {
		return nil, eris.Wrap(err, "mesh: build")
	}

	log := zap.L().With(zap.String("component", "mesh"))
	start := time.Now()

	clusters, err := partition.Partition(samples, opts.Depth)
	if err != nil {
		return nil, eris.Wrap(err, "mesh: partition")
	}

	zones := Zones(clusters, opts)

	positions := make([]model.LatLng, len(samples))
	population := 0
	for i, s := range samples {
		positions[i] = s.Position
		population += s.Population
	}
	bounds, _ := geometry.Bounds(positions)

	res := &Result{
		Run: model.Run{
			ID:          uuid.NewString(),
			Status:      model.RunStatusComplete,
			Depth:       opts.Depth,
			Padding:     opts.Padding,
			SampleCount: len(samples),
			Population:  population,
			ZoneCount:   len(zones),
			Bounds:      bounds,
			CreatedAt:   time.Now().UTC(),
		},
		Zones:   zones,
		Balance: Summarize(zones),
	}

	log.Info("mesh built",
		zap.String("run_id", res.Run.ID),
		zap.Int("samples", len(samples)),
		zap.Int("depth", opts.Depth),
		zap.Int("zones", len(zones)),
		zap.Float64("population_cv", res.Balance.CV),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// TessellateAndAggregate turns clusters into zones using the given padding
// and default values for every other option.
func TessellateAndAggregate(clusters []partition.Cluster, padding float64) []model.Zone {
	opts := DefaultOptions()
	opts.Padding = padding
	return Zones(clusters, opts)
}

// Zones tessellates and aggregates clusters into zones, in cluster order.
// Densities are scored only after every zone has been measured.
func Zones(clusters []partition.Cluster, opts Options) []model.Zone {
	if len(clusters) == 0 {
		return nil
	}

	var positions []model.LatLng
	for _, c := range clusters {
		for _, s := range c.Samples {
			positions = append(positions, s.Position)
		}
	}
	bounds, ok := geometry.Bounds(positions)
	if !ok {
		return nil
	}

	polygons := tessellate.Tessellate(clusters, bounds, tessellate.Options{
		Padding:           opts.Padding,
		FallbackHalfWidth: opts.FallbackHalfWidth,
	})

	zones := make([]model.Zone, len(clusters))
	inputs := make([]density.Input, len(clusters))
	for i, c := range clusters {
		zones[i] = newZone(i, c, polygons[i], aggregate.Aggregate(c))
		inputs[i] = density.Input{Polygon: polygons[i], Population: zones[i].Population}
	}

	measures := density.Raw(inputs, opts.MinArea)
	normalized := density.Normalize(measures)

	for i := range zones {
		zones[i].Area = measures[i].Area
		zones[i].RawDensity = measures[i].Raw
		zones[i].NormalizedDensity = normalized[i]
		zones[i].Tier = density.Tier(normalized[i])
		if opts.Labeler != nil {
			zones[i].Label = opts.Labeler.Label(zones[i].Centroid)
		}
	}
	return zones
}

// ZoneID returns the identifier of the i-th leaf zone of a run.
func ZoneID(i int) string {
	return fmt.Sprintf("zone-%04d", i+1)
}

func newZone(i int, c partition.Cluster, polygon model.Ring, st aggregate.Stats) model.Zone {
	return model.Zone{
		ID:                 ZoneID(i),
		Source:             st.Source,
		Centroid:           c.Centroid,
		Polygon:            polygon,
		Population:         st.Population,
		SampleCount:        st.SampleCount,
		MeanAge:            st.MeanAge,
		MeanStrata:         st.MeanStrata,
		MeanIncome:         st.MeanIncome,
		MeanEmploymentRate: st.MeanEmploymentRate,
		Education:          st.Education,
		Occupation:         st.Occupation,
		Interest:           st.Interest,
		Connectivity:       st.Connectivity,
		VoteMayor:          st.VoteMayor,
		VoteGovernor:       st.VoteGovernor,
		VoteCouncil:        st.VoteCouncil,
		VoteAssembly:       st.VoteAssembly,
		VoteCongress:       st.VoteCongress,
		Spectrum:           st.Spectrum,
	}
}
