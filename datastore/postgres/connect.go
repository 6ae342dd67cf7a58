package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/datastore/postgres/migrations"
)

const appnameKey = `application_name`

// Store is a datastore.Store backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Connect parses "connString" and calls [New] with the result.
func Connect(ctx context.Context, connString, applicationName string, migrate bool) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      `datastore/postgres/Connect`,
			Kind:    addonrepo.ErrInvalid,
			Message: "failed to parse connection string",
			Inner:   err,
		}
	}
	if _, ok := cfg.ConnConfig.RuntimeParams[appnameKey]; !ok {
		cfg.ConnConfig.RuntimeParams[appnameKey] = applicationName
	}
	return New(ctx, cfg, migrate)
}

// New creates a connection pool from "cfg", running migrations first if
// "migrate" is set.
//
// The returned Store must have its Close method called.
func New(ctx context.Context, cfg *pgxpool.Config, migrate bool) (*Store, error) {
	const op = `datastore/postgres/New`
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrPrecondition,
			Message: "failed to create connection pool",
			Inner:   err,
		}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrNetwork,
			Message: "unable to reach database",
			Inner:   err,
		}
	}
	if migrate {
		if err := migrations.Exec(ctx, pool); err != nil {
			pool.Close()
			return nil, &addonrepo.Error{
				Op:      op,
				Kind:    addonrepo.ErrPrecondition,
				Message: "failed to run migrations",
				Inner:   err,
			}
		}
	}
	name, ok := cfg.ConnConfig.RuntimeParams[appnameKey]
	if !ok {
		name = "addonrepo"
	}
	if err := prometheus.Register(newPoolCollector(pool, name)); err != nil {
		zerolog.Ctx(ctx).Info().
			Str("component", "datastore/postgres/New").
			Msg("pool metrics already registered")
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
