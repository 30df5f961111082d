package mesh

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/zonemesh/internal/model"
)

// Balance summarizes how evenly population is spread across zones.
type Balance struct {
	Zones  int     `json:"zones"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	// CV is the coefficient of variation, StdDev/Mean.
	CV float64 `json:"cv"`
}

// Summarize computes the population Balance of zones.
func Summarize(zones []model.Zone) Balance {
	if len(zones) == 0 {
		return Balance{}
	}
	pops := make([]float64, len(zones))
	for i, z := range zones {
		pops[i] = float64(z.Population)
	}

	b := Balance{
		Zones: len(zones),
		Min:   floats.Min(pops),
		Max:   floats.Max(pops),
	}
	if len(pops) == 1 {
		b.Mean = pops[0]
		return b
	}
	b.Mean, b.StdDev = stat.MeanStdDev(pops, nil)
	if b.Mean > 0 {
		b.CV = b.StdDev / b.Mean
	}
	return b
}
