// Package aggregate reduces a cluster's samples to zone statistics:
// population sum, unweighted numeric means and categorical modes.
package aggregate

import (
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/partition"
)

// Values reported for a categorical field with no observations.
const (
	FallbackSource       = "Zona Periférica"
	FallbackEducation    = model.EducationSecondary
	FallbackOccupation   = "Empleado"
	FallbackInterest     = model.InterestSports
	FallbackConnectivity = "HFC Banda Ancha"
	FallbackVote         = "Voto en Blanco"
	FallbackSpectrum     = "Centro"
)

// Stats is the statistical rollup of one cluster.
type Stats struct {
	Population  int
	SampleCount int

	MeanAge            float64
	MeanStrata         float64
	MeanIncome         float64
	MeanEmploymentRate float64

	Source       string
	Education    string
	Occupation   string
	Interest     string
	Connectivity string
	VoteMayor    string
	VoteGovernor string
	VoteCouncil  string
	VoteAssembly string
	VoteCongress string
	Spectrum     string
}

// Aggregate computes Stats for a cluster in one pass over its samples.
func Aggregate(c partition.Cluster) Stats {
	return Samples(c.Samples)
}

// Samples computes Stats for samples. Means are unweighted across samples,
// not weighted by population. A mode tie goes to the value seen first. An
// empty input yields zero counts, zero means and the fallback categories.
func Samples(samples []model.Sample) Stats {
	var st Stats
	var age, strata, income, employment float64
	var source, education, occupation, interest, connectivity modeCounter
	var mayor, governor, council, assembly, congress, spectrum modeCounter

	for _, s := range samples {
		st.Population += s.Population
		age += s.Age
		strata += s.Strata
		income += s.Income
		employment += s.EmploymentRate

		source.add(s.Source)
		education.add(s.Education)
		occupation.add(s.Occupation)
		interest.add(s.Interest)
		connectivity.add(s.Connectivity)
		mayor.add(s.VoteMayor)
		governor.add(s.VoteGovernor)
		council.add(s.VoteCouncil)
		assembly.add(s.VoteAssembly)
		congress.add(s.VoteCongress)
		spectrum.add(s.Spectrum)
	}

	st.SampleCount = len(samples)
	if n := float64(len(samples)); n > 0 {
		st.MeanAge = age / n
		st.MeanStrata = strata / n
		st.MeanIncome = income / n
		st.MeanEmploymentRate = employment / n
	}

	st.Source = source.mode(FallbackSource)
	st.Education = education.mode(FallbackEducation)
	st.Occupation = occupation.mode(FallbackOccupation)
	st.Interest = interest.mode(FallbackInterest)
	st.Connectivity = connectivity.mode(FallbackConnectivity)
	st.VoteMayor = mayor.mode(FallbackVote)
	st.VoteGovernor = governor.mode(FallbackVote)
	st.VoteCouncil = council.mode(FallbackVote)
	st.VoteAssembly = assembly.mode(FallbackVote)
	st.VoteCongress = congress.mode(FallbackVote)
	st.Spectrum = spectrum.mode(FallbackSpectrum)
	return st
}

// modeCounter tallies values while remembering first-seen order, so the
// winner never depends on map iteration order. Empty strings are ignored.
type modeCounter struct {
	counts map[string]int
	order  []string
}

func (m *modeCounter) add(v string) {
	if v == "" {
		return
	}
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	if m.counts[v] == 0 {
		m.order = append(m.order, v)
	}
	m.counts[v]++
}

func (m *modeCounter) mode(fallback string) string {
	best, bestCount := fallback, 0
	for _, v := range m.order {
		if c := m.counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best
}
