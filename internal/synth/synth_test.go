package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zonemesh/internal/model"
)

func TestGenerate_Count(t *testing.T) {
	samples := New(1).Generate(DefaultPoints)
	assert.Len(t, samples, (DefaultPoints/len(Medellin))*len(Medellin))
}

func TestGenerate_MinimumPerProfile(t *testing.T) {
	samples := New(1).Generate(10)
	assert.Len(t, samples, MinPerProfile*len(Medellin))
}

func TestGenerate_Deterministic(t *testing.T) {
	a := New(7).Generate(1600)
	b := New(7).Generate(1600)
	c := New(8).Generate(1600)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_Ranges(t *testing.T) {
	samples := New(3).Generate(3200)
	require.NotEmpty(t, samples)

	bySource := map[string]Profile{}
	for _, p := range Medellin {
		bySource[p.Name] = p
	}

	for _, s := range samples {
		p, ok := bySource[s.Source]
		require.True(t, ok, s.Source)

		assert.GreaterOrEqual(t, s.Population, 100)
		assert.Less(t, s.Population, 120)
		assert.GreaterOrEqual(t, s.Strata, 1.0)
		assert.LessOrEqual(t, s.Strata, 6.0)
		assert.LessOrEqual(t, abs(s.Strata-float64(p.BaseStrata)), 1.0)
		assert.GreaterOrEqual(t, s.Age, p.MinAge)
		assert.Less(t, s.Age, p.MaxAge)
		assert.GreaterOrEqual(t, s.EmploymentRate, 0.35)
		assert.LessOrEqual(t, s.EmploymentRate, 0.99)
		assert.Positive(t, s.Income)
		assert.Contains(t, p.EducationBias, s.Education)
		assert.Contains(t, model.Interests, s.Interest)
		assert.Contains(t, model.MayorParties, s.VoteMayor)
		assert.Contains(t, model.GovernorCandidates, s.VoteGovernor)
		assert.Contains(t, model.CorporationParties, s.VoteCouncil)
		assert.Contains(t, model.Spectrum, s.Spectrum)
		assert.NotEmpty(t, s.Connectivity)
		assert.NotEmpty(t, s.Occupation)
		// Gaussian offsets stay well within ten standard deviations.
		assert.Less(t, abs(s.Position.Lat-p.Center.Lat), 10*p.Spread)
	}
}

func TestGenerate_NoProfiles(t *testing.T) {
	assert.Nil(t, NewWithProfiles(1, nil).Generate(100))
}

func TestIncome(t *testing.T) {
	g := New(5)
	for range 200 {
		low := income(g.rng, 1)
		assert.GreaterOrEqual(t, low, 1_200_000*0.7-1)
		assert.LessOrEqual(t, low, 1_200_000*1.3)

		high := income(g.rng, 6)
		assert.GreaterOrEqual(t, high, 22_000_000*0.4-1)
		assert.LessOrEqual(t, high, 22_000_000*1.6)
	}
}

func TestConnectivity_ByStrata(t *testing.T) {
	g := New(9)
	allowed := map[int][]string{
		6: {"Fibra Óptica (500MB+)", "HFC Banda Ancha Alta"},
		4: {"Fibra Óptica (300MB)", "HFC Banda Ancha"},
		3: {"Fibra Óptica (100MB)", "HFC Banda Ancha", "ADSL / Cobre"},
		1: {"HFC Banda Ancha", "Datos Móviles (4G/LTE)", "Prepago / Red Comunitaria"},
	}
	for strata, values := range allowed {
		for range 50 {
			assert.Contains(t, values, connectivity(g.rng, strata))
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
