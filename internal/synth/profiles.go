package synth

import "github.com/sells-group/zonemesh/internal/model"

// Profile describes the demographic character of one comuna.
type Profile struct {
	Name          string
	Center        model.LatLng
	BaseStrata    int
	DensityFactor float64
	// Spread is the standard deviation scale, in degrees, of point offsets.
	Spread        float64
	MinAge        float64
	MaxAge        float64
	EducationBias []string
	Interests     []string
}

// Medellin holds the 16 urban comunas of Medellín.
var Medellin = []Profile{
	{
		Name: "Comuna 1 - Popular", Center: model.LatLng{Lat: 6.298, Lng: -75.545},
		BaseStrata: 1, DensityFactor: 0.98, Spread: 0.006, MinAge: 15, MaxAge: 40,
		EducationBias: []string{model.EducationPrimary, model.EducationSecondary},
		Interests:     []string{model.InterestMusic, model.InterestSports, model.InterestFashion},
	},
	{
		Name: "Comuna 2 - Santa Cruz", Center: model.LatLng{Lat: 6.292, Lng: -75.558},
		BaseStrata: 2, DensityFactor: 0.95, Spread: 0.005, MinAge: 18, MaxAge: 50,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical},
		Interests:     []string{model.InterestSports, model.InterestMusic},
	},
	{
		Name: "Comuna 3 - Manrique", Center: model.LatLng{Lat: 6.272, Lng: -75.548},
		BaseStrata: 2, DensityFactor: 0.90, Spread: 0.007, MinAge: 20, MaxAge: 60,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical},
		Interests:     []string{model.InterestMusic, model.InterestPolitics, model.InterestTravel},
	},
	{
		Name: "Comuna 4 - Aranjuez", Center: model.LatLng{Lat: 6.278, Lng: -75.562},
		BaseStrata: 3, DensityFactor: 0.88, Spread: 0.007, MinAge: 25, MaxAge: 70,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical, model.EducationUniversity},
		Interests:     []string{model.InterestPolitics, model.InterestTech, model.InterestMusic},
	},
	{
		Name: "Comuna 5 - Castilla", Center: model.LatLng{Lat: 6.298, Lng: -75.572},
		BaseStrata: 3, DensityFactor: 0.92, Spread: 0.007, MinAge: 22, MaxAge: 55,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical},
		Interests:     []string{model.InterestSports, model.InterestFashion, model.InterestMusic},
	},
	{
		Name: "Comuna 6 - Doce de Octubre", Center: model.LatLng{Lat: 6.308, Lng: -75.582},
		BaseStrata: 2, DensityFactor: 0.96, Spread: 0.006, MinAge: 16, MaxAge: 45,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical},
		Interests:     []string{model.InterestMusic, model.InterestSports},
	},
	{
		Name: "Comuna 7 - Robledo", Center: model.LatLng{Lat: 6.282, Lng: -75.598},
		BaseStrata: 3, DensityFactor: 0.85, Spread: 0.012, MinAge: 18, MaxAge: 50,
		EducationBias: []string{model.EducationUniversity, model.EducationTechnical, model.EducationPostgrad},
		Interests:     []string{model.InterestTech, model.InterestMusic, model.InterestPolitics},
	},
	{
		Name: "Comuna 8 - Villa Hermosa", Center: model.LatLng{Lat: 6.252, Lng: -75.542},
		BaseStrata: 2, DensityFactor: 0.90, Spread: 0.007, MinAge: 20, MaxAge: 55,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical},
		Interests:     []string{model.InterestMusic, model.InterestSports},
	},
	{
		Name: "Comuna 9 - Buenos Aires", Center: model.LatLng{Lat: 6.232, Lng: -75.552},
		BaseStrata: 3, DensityFactor: 0.85, Spread: 0.008, MinAge: 25, MaxAge: 60,
		EducationBias: []string{model.EducationUniversity, model.EducationTechnical},
		Interests:     []string{model.InterestTravel, model.InterestPolitics, model.InterestFashion},
	},
	{
		Name: "Comuna 10 - La Candelaria (Centro)", Center: model.LatLng{Lat: 6.248, Lng: -75.570},
		BaseStrata: 3, DensityFactor: 0.70, Spread: 0.006, MinAge: 25, MaxAge: 55,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical, model.EducationUniversity},
		Interests:     []string{model.InterestPolitics, model.InterestTech, model.InterestTravel},
	},
	{
		Name: "Comuna 11 - Laureles-Estadio", Center: model.LatLng{Lat: 6.245, Lng: -75.592},
		BaseStrata: 5, DensityFactor: 0.78, Spread: 0.008, MinAge: 25, MaxAge: 75,
		EducationBias: []string{model.EducationUniversity, model.EducationPostgrad},
		Interests:     []string{model.InterestTech, model.InterestTravel, model.InterestPolitics, model.InterestFashion},
	},
	{
		Name: "Comuna 12 - La América", Center: model.LatLng{Lat: 6.255, Lng: -75.605},
		BaseStrata: 4, DensityFactor: 0.82, Spread: 0.007, MinAge: 30, MaxAge: 65,
		EducationBias: []string{model.EducationUniversity, model.EducationTechnical},
		Interests:     []string{model.InterestPolitics, model.InterestTravel, model.InterestSports},
	},
	{
		Name: "Comuna 13 - San Javier", Center: model.LatLng{Lat: 6.255, Lng: -75.620},
		BaseStrata: 2, DensityFactor: 0.94, Spread: 0.007, MinAge: 15, MaxAge: 35,
		EducationBias: []string{model.EducationSecondary, model.EducationTechnical, model.EducationTechnical},
		Interests:     []string{model.InterestMusic, model.InterestFashion, model.InterestTech},
	},
	{
		Name: "Comuna 14 - El Poblado", Center: model.LatLng{Lat: 6.205, Lng: -75.565},
		BaseStrata: 6, DensityFactor: 0.45, Spread: 0.016, MinAge: 30, MaxAge: 75,
		EducationBias: []string{model.EducationUniversity, model.EducationPostgrad},
		Interests:     []string{model.InterestTravel, model.InterestTech, model.InterestPolitics, model.InterestSports},
	},
	{
		Name: "Comuna 15 - Guayabal", Center: model.LatLng{Lat: 6.218, Lng: -75.588},
		BaseStrata: 3, DensityFactor: 0.65, Spread: 0.009, MinAge: 30, MaxAge: 60,
		EducationBias: []string{model.EducationTechnical, model.EducationSecondary, model.EducationUniversity},
		Interests:     []string{model.InterestSports, model.InterestPolitics, model.InterestTech},
	},
	{
		Name: "Comuna 16 - Belén", Center: model.LatLng{Lat: 6.228, Lng: -75.605},
		BaseStrata: 4, DensityFactor: 0.84, Spread: 0.012, MinAge: 25, MaxAge: 65,
		EducationBias: []string{model.EducationUniversity, model.EducationTechnical},
		Interests:     []string{model.InterestSports, model.InterestTravel, model.InterestFashion},
	},
}
