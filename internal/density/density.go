// Package density scores zones by population per unit of planar area.
//
// Scoring is two stages with a batch barrier between them: Raw computes
// every zone's population/area, then Normalize compresses the batch against
// its maximum. No zone's normalized score is known until all raw densities are.
package density

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sells-group/zonemesh/internal/geometry"
	"github.com/sells-group/zonemesh/internal/model"
)

// DefaultMinArea is substituted for the area of degenerate polygons.
const DefaultMinArea = 1e-12

// Input is one zone's polygon and population.
type Input struct {
	Polygon    model.Ring
	Population int
}

// Measure is the first-stage result for one zone.
type Measure struct {
	Area float64
	Raw  float64
}

// Raw computes planar area and population/area for every input. Areas are
// in square degrees. A ring with fewer than 3 vertices, or an area below
// minArea, is measured as minArea. A non-positive minArea uses DefaultMinArea.
func Raw(inputs []Input, minArea float64) []Measure {
	if minArea <= 0 {
		minArea = DefaultMinArea
	}
	out := make([]Measure, len(inputs))
	for i, in := range inputs {
		area := minArea
		if len(in.Polygon) >= 3 {
			area = math.Max(geometry.Area(in.Polygon), minArea)
		}
		out[i] = Measure{Area: area, Raw: float64(in.Population) / area}
	}
	return out
}

// Normalize maps raw densities to [0,1] as sqrt(raw)/sqrt(max), capped at 1.
// The densest zone scores exactly 1. If every density is zero, every score is 0.
func Normalize(measures []Measure) []float64 {
	out := make([]float64, len(measures))
	if len(measures) == 0 {
		return out
	}

	raw := make([]float64, len(measures))
	for i, m := range measures {
		raw[i] = m.Raw
	}
	peak := floats.Max(raw)
	if peak <= 0 {
		return out
	}

	root := math.Sqrt(peak)
	for i, r := range raw {
		if r <= 0 {
			continue
		}
		out[i] = math.Min(1, math.Sqrt(r)/root)
	}
	return out
}

// Normalized-density thresholds for tier classification.
const (
	highTierThreshold   = 0.8 // strictly above is high
	mediumTierThreshold = 0.5 // strictly above is medium
)

// Tier returns the legend tier for a normalized density.
// Rules:
//   - high: above 0.8
//   - medium: above 0.5 up to 0.8
//   - low: everything else
func Tier(normalized float64) string {
	if normalized > highTierThreshold {
		return model.TierHigh
	}
	if normalized > mediumTierThreshold {
		return model.TierMedium
	}
	return model.TierLow
}
