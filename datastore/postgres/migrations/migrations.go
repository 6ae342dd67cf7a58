// Package migrations holds the schema migrations for the PostgreSQL store.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// MigrationTable records applied migrations.
const MigrationTable = "addonrepo_migrations"

// Lock is the advisory lock key held while migrating.
const lock = 0x61646472

//go:embed */*.sql
var fs embed.FS

// Migration is one schema change.
type Migration struct {
	ID int
	Up func(context.Context, pgx.Tx) error
}

func runFile(n string) func(context.Context, pgx.Tx) error {
	b, err := fs.ReadFile(n)
	return func(ctx context.Context, tx pgx.Tx) error {
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, string(b)); err != nil {
			return err
		}
		return nil
	}
}

// Migrations is every migration, in order.
var Migrations = []Migration{
	{
		ID: 1,
		Up: runFile("addonrepo/01-init.sql"),
	},
}

// Exec applies every migration not yet recorded in MigrationTable.
//
// Concurrent callers are serialized with an advisory lock.
func Exec(ctx context.Context, pool *pgxpool.Pool) error {
	log := zerolog.Ctx(ctx).With().
		Str("component", "datastore/postgres/migrations/Exec").
		Logger()
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version integer PRIMARY KEY,
	applied timestamptz NOT NULL DEFAULT now()
);`, pgx.Identifier{MigrationTable}.Sanitize())
	current := fmt.Sprintf(`SELECT COALESCE(MAX(version), 0) FROM %s;`, pgx.Identifier{MigrationTable}.Sanitize())
	record := fmt.Sprintf(`INSERT INTO %s (version) VALUES ($1);`, pgx.Identifier{MigrationTable}.Sanitize())

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, lock); err != nil {
			return fmt.Errorf("migrations: unable to lock: %w", err)
		}
		if _, err := tx.Exec(ctx, create); err != nil {
			return fmt.Errorf("migrations: unable to create table: %w", err)
		}
		var v int
		if err := tx.QueryRow(ctx, current).Scan(&v); err != nil {
			return fmt.Errorf("migrations: unable to determine version: %w", err)
		}
		for _, m := range Migrations {
			if m.ID <= v {
				continue
			}
			if err := m.Up(ctx, tx); err != nil {
				return fmt.Errorf("migrations: migration %d: %w", m.ID, err)
			}
			if _, err := tx.Exec(ctx, record, m.ID); err != nil {
				return fmt.Errorf("migrations: migration %d: %w", m.ID, err)
			}
			log.Info().Int("version", m.ID).Msg("applied migration")
		}
		return nil
	})
}
