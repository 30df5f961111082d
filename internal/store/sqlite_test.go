package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zonemesh/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testRun(id string, createdAt time.Time) model.Run {
	return model.Run{
		ID:          id,
		Status:      model.RunStatusComplete,
		Depth:       1,
		Padding:     0.01,
		SampleCount: 4,
		Population:  400,
		ZoneCount:   2,
		Bounds:      model.BBox{MinLat: 6.2, MaxLat: 6.3, MinLng: -75.6, MaxLng: -75.5},
		CreatedAt:   createdAt,
	}
}

func testZones() []model.Zone {
	return []model.Zone{
		{
			ID:         "zone-0001",
			Label:      "Laureles",
			Centroid:   model.LatLng{Lat: 6.25, Lng: -75.59},
			Polygon:    model.Ring{{Lat: 6.2, Lng: -75.6}, {Lat: 6.2, Lng: -75.55}, {Lat: 6.3, Lng: -75.55}, {Lat: 6.3, Lng: -75.6}},
			Population: 200,
			Education:  model.EducationUniversity,
			Tier:       model.TierHigh,
		},
		{
			ID:         "zone-0002",
			Label:      "El Poblado",
			Centroid:   model.LatLng{Lat: 6.25, Lng: -75.52},
			Polygon:    model.Ring{{Lat: 6.2, Lng: -75.55}, {Lat: 6.2, Lng: -75.5}, {Lat: 6.3, Lng: -75.5}, {Lat: 6.3, Lng: -75.55}},
			Population: 200,
			Education:  model.EducationPostgrad,
			Tier:       model.TierLow,
		},
	}
}

func TestSQLite_SaveAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveRun(ctx, testRun("run-1", created), testZones()))

	got, err := st.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 2, got.ZoneCount)
	assert.Equal(t, 400, got.Population)
	assert.InDelta(t, 6.2, got.Bounds.MinLat, 1e-12)
	assert.InDelta(t, -75.5, got.Bounds.MaxLng, 1e-12)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_SaveRun_Duplicate(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run := testRun("run-dup", time.Now())
	require.NoError(t, st.SaveRun(ctx, run, testZones()))
	err := st.SaveRun(ctx, run, testZones())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run")
}

func TestSQLite_GetZones_Order(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveRun(ctx, testRun("run-1", time.Now()), testZones()))

	zones, err := st.GetZones(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "zone-0001", zones[0].ID)
	assert.Equal(t, "zone-0002", zones[1].ID)
	assert.Equal(t, "Laureles", zones[0].Label)
	assert.Len(t, zones[0].Polygon, 4)
	assert.Equal(t, model.EducationPostgrad, zones[1].Education)
}

func TestSQLite_GetZones_EmptyRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run := testRun("run-empty", time.Now())
	run.ZoneCount = 0
	require.NoError(t, st.SaveRun(ctx, run, nil))

	zones, err := st.GetZones(ctx, "run-empty")
	require.NoError(t, err)
	assert.NotNil(t, zones)
	assert.Empty(t, zones)
}

func TestSQLite_GetZones_UnknownRun(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetZones(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_GetZone(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveRun(ctx, testRun("run-1", time.Now()), testZones()))

	z, err := st.GetZone(ctx, "run-1", "zone-0002")
	require.NoError(t, err)
	assert.Equal(t, "El Poblado", z.Label)
	assert.Equal(t, model.TierLow, z.Tier)

	_, err = st.GetZone(ctx, "run-1", "zone-9999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveRun(ctx, testRun("run-old", base), nil))
	require.NoError(t, st.SaveRun(ctx, testRun("run-new", base.Add(time.Hour)), nil))

	failed := testRun("run-failed", base.Add(30*time.Minute))
	failed.Status = model.RunStatusFailed
	failed.Error = "mesh: build: depth out of range"
	require.NoError(t, st.SaveRun(ctx, failed, nil))

	runs, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-failed", runs[1].ID)
	assert.Equal(t, "run-old", runs[2].ID)

	runs, err = st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "mesh: build: depth out of range", runs[0].Error)

	runs, err = st.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-failed", runs[0].ID)
}

func TestSQLite_ListRuns_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	runs, err := st.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
