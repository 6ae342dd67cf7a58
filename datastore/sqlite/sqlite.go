// Package sqlite implements datastore.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/datastore"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations are applied in order; the database's "user_version" records how
// many have run.
var migrations = []string{
	"migrations/01-init.sql",
}

// Store is a datastore.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ datastore.Store = (*Store)(nil)

// Open opens or creates the SQLite database at the path "f" and brings its
// schema up to date.
//
// The returned Store must have its Close method called.
func Open(ctx context.Context, f string) (*Store, error) {
	const op = `datastore/sqlite/Open`
	u := url.URL{
		Scheme: `file`,
		Opaque: f,
		RawQuery: url.Values{
			"_pragma": {
				"foreign_keys(1)",
				"busy_timeout(5000)",
				"journal_mode(WAL)",
			},
		}.Encode(),
	}
	db, err := sql.Open(`sqlite`, u.String())
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrInvalid,
			Message: fmt.Sprintf("bad database path %q", f),
			Inner:   err,
		}
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrPrecondition,
			Message: fmt.Sprintf("unable to open database %q", f),
			Inner:   err,
		}
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrPrecondition,
			Message: "unable to run migrations",
			Inner:   err,
		}
	}
	return &Store{db: db}, nil
}

// Close releases held resources.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(ctx context.Context, db *sql.DB) error {
	log := zerolog.Ctx(ctx).With().
		Str("component", "datastore/sqlite/migrate").
		Logger()
	var v int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("sqlite: reading schema version: %w", err)
	}
	for i := v; i < len(migrations); i++ {
		b, err := migrationFS.ReadFile(migrations[i])
		if err != nil {
			return err
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("sqlite: migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, string(b)); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("sqlite: migration %d: %w", i+1, err)
		}
		log.Info().Int("version", i+1).Msg("applied migration")
	}
	return nil
}
