package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/zonemesh/internal/db"
	"github.com/sells-group/zonemesh/internal/geometry"
	"github.com/sells-group/zonemesh/internal/model"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Schema holds every zonemesh table in Postgres.
const Schema = "zonemesh"

var zoneCopyColumns = []string{
	"run_id", "seq", "zone_id", "label", "population", "normalized_density", "tier", "data", "geom",
}

// PostgresStore implements Store on PostGIS. Each zone is one row with its
// polygon in a geometry column and the full record as JSONB.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return eris.Wrap(db.Migrate(ctx, s.pool, migrationFS, "migrations", Schema), "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run model.Run, zones []model.Zone) error {
	rows := make([][]any, 0, len(zones))
	for i, z := range zones {
		data, err := json.Marshal(z)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal zone %s", z.ID)
		}
		wkb, err := geometry.EncodeEWKB(z.Polygon)
		if err != nil {
			return eris.Wrapf(err, "postgres: encode zone %s", z.ID)
		}
		rows = append(rows, []any{
			run.ID, i, z.ID, z.Label, z.Population, z.NormalizedDensity, z.Tier, data, wkb,
		})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO zonemesh.runs (`+runColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		runArgs(run)...,
	); err != nil {
		return eris.Wrapf(err, "postgres: insert run %s", run.ID)
	}

	if _, err := db.CopyFrom(ctx, tx, Schema, "zones", zoneCopyColumns, rows); err != nil {
		return eris.Wrapf(err, "postgres: copy zones for run %s", run.ID)
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit run")
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	err := scanRunInto(s.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM zonemesh.runs WHERE id = $1`, runID,
	), &r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: run %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM zonemesh.runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d`, argIdx)
	args = append(args, listLimit(filter))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := scanRunInto(rows, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) GetZones(ctx context.Context, runID string) ([]model.Zone, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT data FROM zonemesh.zones WHERE run_id = $1 ORDER BY seq`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get zones %s", runID)
	}
	defer rows.Close()

	zones := []model.Zone{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan zone")
		}
		var z model.Zone
		if err := json.Unmarshal(data, &z); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal zone")
		}
		zones = append(zones, z)
	}
	return zones, eris.Wrap(rows.Err(), "postgres: get zones iterate")
}

func (s *PostgresStore) GetZone(ctx context.Context, runID, zoneID string) (*model.Zone, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM zonemesh.zones WHERE run_id = $1 AND zone_id = $2`, runID, zoneID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: zone %s/%s", runID, zoneID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get zone %s/%s", runID, zoneID)
	}

	var z model.Zone
	if err := json.Unmarshal(data, &z); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal zone")
	}
	return &z, nil
}
