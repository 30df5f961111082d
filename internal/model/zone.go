package model

import "time"

// Ring is an open polygon ring: the last vertex is not repeated. Rings
// produced by the tessellator wind counter-clockwise in the lng/lat plane.
type Ring []LatLng

// Density tiers used by map legends.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Zone is one output cell of the mesh with its statistical rollup.
type Zone struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Source   string `json:"source,omitempty"`
	Centroid LatLng `json:"centroid"`
	Polygon  Ring   `json:"polygon"`

	Population         int     `json:"population"`
	SampleCount        int     `json:"sample_count"`
	MeanAge            float64 `json:"mean_age"`
	MeanStrata         float64 `json:"mean_strata"`
	MeanIncome         float64 `json:"mean_income"`
	MeanEmploymentRate float64 `json:"mean_employment_rate"`

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

	Area              float64 `json:"area"`
	RawDensity        float64 `json:"raw_density"`
	NormalizedDensity float64 `json:"normalized_density"`
	Tier              string  `json:"tier"`
}

// RunStatus is the lifecycle state of a stored mesh run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run describes one pipeline invocation.
type Run struct {
	ID          string    `json:"id"`
	Status      RunStatus `json:"status"`
	Depth       int       `json:"depth"`
	Padding     float64   `json:"padding"`
	SampleCount int       `json:"sample_count"`
	Population  int       `json:"population"`
	ZoneCount   int       `json:"zone_count"`
	Bounds      BBox      `json:"bounds"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BBox is an axis-aligned geographic bounding box.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}
