// Package model defines the records that flow through the zone mesh pipeline.
package model

// LatLng is a geographic coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Sample is one population-weighted demographic point. Samples are never
// mutated once generated or loaded.
type Sample struct {
	Position   LatLng `json:"position"`
	Population int    `json:"population"`
	Source     string `json:"source,omitempty"`

	// Numeric attributes, averaged per zone.
	Age            float64 `json:"age"`
	Strata         float64 `json:"strata"`
	Income         float64 `json:"income"`
	EmploymentRate float64 `json:"employment_rate"`

	// Categorical attributes, reduced to their mode per zone.
	Education    string `json:"education"`
	Occupation   string `json:"occupation"`
	Interest     string `json:"interest"`
	Connectivity string `json:"connectivity"`
	VoteMayor    string `json:"vote_mayor"`
	VoteGovernor string `json:"vote_governor"`
	VoteCouncil  string `json:"vote_council"`
	VoteAssembly string `json:"vote_assembly"`
	VoteCongress string `json:"vote_congress"`
	Spectrum     string `json:"spectrum"`
}

// Education tiers.
const (
	EducationNone       = "Sin Escolaridad"
	EducationPrimary    = "Primaria"
	EducationSecondary  = "Secundaria"
	EducationTechnical  = "Técnico"
	EducationUniversity = "Universitario"
	EducationPostgrad   = "Posgrado"
)

// Interests.
const (
	InterestTech     = "Tecnología"
	InterestSports   = "Deportes"
	InterestFashion  = "Moda"
	InterestPolitics = "Política"
	InterestMusic    = "Música"
	InterestTravel   = "Viajes"
)

// Interests lists every interest in declaration order.
var Interests = []string{
	InterestTech, InterestSports, InterestFashion,
	InterestPolitics, InterestMusic, InterestTravel,
}

// Mayoral parties (2023).
var MayorParties = []string{
	"Creemos (Fico)",
	"Independientes (Upegui)",
	"Pacto Histórico",
	"Compromiso / Centro",
	"Voto en Blanco",
}

// Governor candidates (2023).
var GovernorCandidates = []string{
	"A.J. Rendón (CD)",
	"Luis Pérez",
	"L.F. Suárez",
	"Julián Bedoya",
	"Voto en Blanco",
}

// CorporationParties are the parties contesting council, assembly and congress seats.
var CorporationParties = []string{
	"Centro Democrático",
	"Creemos",
	"Pacto Histórico",
	"Partido Liberal",
	"Partido Conservador",
	"Alianza Verde",
	"ASI / Otros",
}

// Spectrum positions, right to left.
var Spectrum = []string{
	"Derecha",
	"Centro-Derecha",
	"Centro",
	"Centro-Izquierda",
	"Izquierda",
}
