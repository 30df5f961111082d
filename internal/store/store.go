// Package store persists mesh runs and their zones.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/zonemesh/internal/model"
)

// ErrNotFound is returned, wrapped, when a run or zone does not exist.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

const defaultListLimit = 100

// Store defines the persistence interface for mesh runs.
type Store interface {
	// SaveRun stores a run and all of its zones atomically.
	SaveRun(ctx context.Context, run model.Run, zones []model.Zone) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	// GetZones returns a run's zones in mesh order.
	GetZones(ctx context.Context, runID string) ([]model.Zone, error)
	GetZone(ctx context.Context, runID, zoneID string) (*model.Zone, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

type scannable interface {
	Scan(dest ...any) error
}

const runColumns = `id, status, depth, padding, sample_count, population, zone_count,
	min_lat, max_lat, min_lng, max_lng, error, created_at`

func runArgs(r model.Run) []any {
	return []any{
		r.ID, string(r.Status), r.Depth, r.Padding, r.SampleCount, r.Population, r.ZoneCount,
		r.Bounds.MinLat, r.Bounds.MaxLat, r.Bounds.MinLng, r.Bounds.MaxLng, r.Error, r.CreatedAt.UTC(),
	}
}

func scanRunInto(row scannable, r *model.Run) error {
	var status string
	if err := row.Scan(
		&r.ID, &status, &r.Depth, &r.Padding, &r.SampleCount, &r.Population, &r.ZoneCount,
		&r.Bounds.MinLat, &r.Bounds.MaxLat, &r.Bounds.MinLng, &r.Bounds.MaxLng, &r.Error, &r.CreatedAt,
	); err != nil {
		return err
	}
	r.Status = model.RunStatus(status)
	return nil
}

func listLimit(filter RunFilter) int {
	if filter.Limit <= 0 {
		return defaultListLimit
	}
	return filter.Limit
}
