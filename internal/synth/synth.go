// Package synth generates a seeded synthetic population for Medellín.
// Points cluster around comuna centres with Gaussian offsets and carry
// strata-driven income, employment and connectivity.
package synth

import (
	"math"
	"math/rand/v2"

	"github.com/sells-group/zonemesh/internal/model"
)

// Generation defaults.
const (
	DefaultPoints     = 26000
	MinPerProfile     = 100
	basePopulation    = 100
	populationJitter  = 20
	spreadScale       = 0.8
	strataJitterProb  = 0.3
	otherInterestProb = 0.4
)

var occupations = []string{
	"Comerciante", "Estudiante", "Ingeniero", "Artista", "Obrero",
	"Administrador", "Pensionado", "Independiente", "Docente",
}

// Monthly household income base per strata (COP), index 0 unused.
var baseIncome = [...]float64{0, 1_200_000, 1_900_000, 3_200_000, 5_500_000, 11_000_000, 22_000_000}

// Generator produces samples from a deterministic random stream.
type Generator struct {
	rng      *rand.Rand
	profiles []Profile
}

// New returns a Generator over the Medellín profiles. Equal seeds yield
// identical output.
func New(seed uint64) *Generator {
	return NewWithProfiles(seed, Medellin)
}

// NewWithProfiles returns a Generator over custom profiles.
func NewWithProfiles(seed uint64, profiles []Profile) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		profiles: profiles,
	}
}

// Generate returns about total samples split evenly across profiles, with at
// least MinPerProfile per profile.
func (g *Generator) Generate(total int) []model.Sample {
	if len(g.profiles) == 0 {
		return nil
	}
	per := max(MinPerProfile, total/len(g.profiles))

	out := make([]model.Sample, 0, per*len(g.profiles))
	for _, p := range g.profiles {
		for range per {
			out = append(out, g.sample(p))
		}
	}
	return out
}

func (g *Generator) sample(p Profile) model.Sample {
	r := g.rng
	pos := model.LatLng{
		Lat: p.Center.Lat + r.NormFloat64()*p.Spread*spreadScale,
		Lng: p.Center.Lng + r.NormFloat64()*p.Spread*spreadScale,
	}

	strata := p.BaseStrata
	if r.Float64() < strataJitterProb {
		if r.Float64() < 0.5 {
			strata++
		} else {
			strata--
		}
	}
	strata = min(6, max(1, strata))

	age := p.MinAge + r.Float64()*(p.MaxAge-p.MinAge)

	interest := pick(r, model.Interests)
	if r.Float64() >= otherInterestProb && len(p.Interests) > 0 {
		interest = pick(r, p.Interests)
	}

	education := model.EducationSecondary
	if len(p.EducationBias) > 0 {
		education = pick(r, p.EducationBias)
	}

	occupation := pick(r, occupations)
	if strata >= 5 && r.Float64() > 0.5 {
		occupation = "Empresario/Gerente"
	}
	if strata <= 2 && r.Float64() > 0.6 {
		occupation = "Obrero/Operario"
	}

	return model.Sample{
		Position:       pos,
		Population:     basePopulation + r.IntN(populationJitter),
		Source:         p.Name,
		Age:            math.Floor(age),
		Strata:         float64(strata),
		Income:         income(r, strata),
		EmploymentRate: employment(r, strata, age),
		Education:      education,
		Occupation:     occupation,
		Interest:       interest,
		Connectivity:   connectivity(r, strata),
		VoteMayor:      pick(r, model.MayorParties),
		VoteGovernor:   pick(r, model.GovernorCandidates),
		VoteCouncil:    pick(r, model.CorporationParties),
		VoteAssembly:   pick(r, model.CorporationParties),
		VoteCongress:   pick(r, model.CorporationParties),
		Spectrum:       pick(r, model.Spectrum),
	}
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}

// income draws around the strata base: ±60% for strata 5 and 6, ±30% below.
func income(r *rand.Rand, strata int) float64 {
	base := baseIncome[strata]
	variance := 0.3
	if strata >= 5 {
		variance = 0.6
	}
	return math.Floor(base + (r.Float64()-0.5)*2*base*variance)
}

func employment(r *rand.Rand, strata int, age float64) float64 {
	rate := 0.82 + float64(strata)*0.015
	if age > 60 {
		rate -= 0.4
	}
	if age < 22 {
		rate -= 0.3
	}
	rate += (r.Float64() - 0.5) * 0.2
	return min(0.99, max(0.35, rate))
}

func connectivity(r *rand.Rand, strata int) string {
	v := r.Float64()
	switch {
	case strata >= 5:
		if v > 0.1 {
			return "Fibra Óptica (500MB+)"
		}
		return "HFC Banda Ancha Alta"
	case strata >= 4:
		if v > 0.3 {
			return "Fibra Óptica (300MB)"
		}
		return "HFC Banda Ancha"
	case strata >= 3:
		if v > 0.6 {
			return "Fibra Óptica (100MB)"
		}
		if v > 0.2 {
			return "HFC Banda Ancha"
		}
		return "ADSL / Cobre"
	default:
		if v > 0.7 {
			return "HFC Banda Ancha"
		}
		if v > 0.3 {
			return "Datos Móviles (4G/LTE)"
		}
		return "Prepago / Red Comunitaria"
	}
}
