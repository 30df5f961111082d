package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/zonemesh/internal/gazetteer"
	"github.com/sells-group/zonemesh/internal/mesh"
	"github.com/sells-group/zonemesh/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.SQLitePath
		if dsn == "" {
			dsn = "zonemesh.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openStore opens the configured store and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// meshOptions builds pipeline options from config, labelling zones with the
// configured gazetteer.
func meshOptions() (mesh.Options, error) {
	gz, err := gazetteer.Load(cfg.Gazetteer.Path)
	if err != nil {
		return mesh.Options{}, eris.Wrap(err, "load gazetteer")
	}
	return mesh.Options{
		Depth:             cfg.Mesh.Depth,
		Padding:           cfg.Mesh.Padding,
		FallbackHalfWidth: cfg.Mesh.FallbackHalfWidth,
		MinArea:           cfg.Mesh.MinArea,
		Labeler:           gz,
	}, nil
}
