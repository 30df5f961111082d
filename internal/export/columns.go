// Package export writes zone meshes as GeoJSON, ESRI shapefiles and XLSX
// workbooks.
package export

import "github.com/sells-group/zonemesh/internal/model"

type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
)

// column is one zone attribute as it appears in every export format.
type column struct {
	name  string
	short string // dBase field name, at most 10 bytes
	kind  kind
	size  uint8
	prec  uint8
	value func(z *model.Zone) any
}

var columns = []column{
	{"id", "id", kindString, 16, 0, func(z *model.Zone) any { return z.ID }},
	{"label", "label", kindString, 64, 0, func(z *model.Zone) any { return z.Label }},
	{"source", "source", kindString, 64, 0, func(z *model.Zone) any { return z.Source }},
	{"centroid_lat", "cen_lat", kindFloat, 12, 6, func(z *model.Zone) any { return z.Centroid.Lat }},
	{"centroid_lng", "cen_lng", kindFloat, 12, 6, func(z *model.Zone) any { return z.Centroid.Lng }},
	{"population", "population", kindInt, 10, 0, func(z *model.Zone) any { return z.Population }},
	{"sample_count", "samples", kindInt, 10, 0, func(z *model.Zone) any { return z.SampleCount }},
	{"mean_age", "mean_age", kindFloat, 8, 2, func(z *model.Zone) any { return z.MeanAge }},
	{"mean_strata", "strata", kindFloat, 8, 3, func(z *model.Zone) any { return z.MeanStrata }},
	{"mean_income", "income", kindFloat, 16, 0, func(z *model.Zone) any { return z.MeanIncome }},
	{"mean_employment_rate", "employment", kindFloat, 8, 4, func(z *model.Zone) any { return z.MeanEmploymentRate }},
	{"education", "education", kindString, 32, 0, func(z *model.Zone) any { return z.Education }},
	{"occupation", "occupation", kindString, 32, 0, func(z *model.Zone) any { return z.Occupation }},
	{"interest", "interest", kindString, 32, 0, func(z *model.Zone) any { return z.Interest }},
	{"connectivity", "connect", kindString, 40, 0, func(z *model.Zone) any { return z.Connectivity }},
	{"vote_mayor", "mayor", kindString, 40, 0, func(z *model.Zone) any { return z.VoteMayor }},
	{"vote_governor", "governor", kindString, 40, 0, func(z *model.Zone) any { return z.VoteGovernor }},
	{"vote_council", "council", kindString, 40, 0, func(z *model.Zone) any { return z.VoteCouncil }},
	{"vote_assembly", "assembly", kindString, 40, 0, func(z *model.Zone) any { return z.VoteAssembly }},
	{"vote_congress", "congress", kindString, 40, 0, func(z *model.Zone) any { return z.VoteCongress }},
	{"spectrum", "spectrum", kindString, 24, 0, func(z *model.Zone) any { return z.Spectrum }},
	{"area", "area", kindFloat, 20, 12, func(z *model.Zone) any { return z.Area }},
	{"raw_density", "raw_dens", kindFloat, 24, 2, func(z *model.Zone) any { return z.RawDensity }},
	{"normalized_density", "norm_dens", kindFloat, 10, 6, func(z *model.Zone) any { return z.NormalizedDensity }},
	{"tier", "tier", kindString, 8, 0, func(z *model.Zone) any { return z.Tier }},
}

// Properties returns the zone's attributes keyed by column name.
func Properties(z *model.Zone) map[string]any {
	props := make(map[string]any, len(columns))
	for _, c := range columns {
		props[c.name] = c.value(z)
	}
	return props
}

// Header returns the column names in export order.
func Header() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.name
	}
	return out
}
