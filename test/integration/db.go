package integration

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnvDSN names the environment variable consulted for the database server.
const EnvDSN = `POSTGRES_CONNECTION_STRING`

// DefaultDSN is used when EnvDSN is unset.
const DefaultDSN = `host=localhost port=5434 user=addonrepo dbname=addonrepo sslmode=disable`

const (
	createRole      = `CREATE ROLE %s LOGIN;`
	createDatabase  = `CREATE DATABASE %[2]s WITH OWNER %[1]s ENCODING 'UTF8';`
	killConnections = `SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1`
	dropDatabase    = `DROP DATABASE %s;`
	dropRole        = `DROP ROLE %s;`
)

// NeedDB skips the test unless integration tests are enabled, and returns the
// DSN of the server to use.
func NeedDB(t testing.TB) string {
	t.Helper()
	Skip(t)
	if dsn := os.Getenv(EnvDSN); dsn != "" {
		return dsn
	}
	return DefaultDSN
}

// DB is a handle for a throwaway database.
type DB struct {
	dsn string
	cfg *pgxpool.Config
}

// NewDB creates a new database and role with random names on the server
// returned by NeedDB. The database is dropped when the test ends.
func NewDB(ctx context.Context, t testing.TB) *DB {
	t.Helper()
	dsn := NeedDB(t)
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatal(err)
	}
	database := "db" + randHex(t)
	role := "role" + randHex(t)

	conn, err := pgx.ConnectConfig(ctx, cfg.ConnConfig)
	if err != nil {
		t.Skipf("unable to connect to %q: %v", dsn, err)
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, fmt.Sprintf(createRole, role)); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf(createDatabase, role, database)); err != nil {
		t.Fatal(err)
	}
	cfg.ConnConfig.Database = database
	cfg.ConnConfig.User = role
	db := &DB{dsn: dsn, cfg: cfg}
	t.Cleanup(func() { db.close(context.Background(), t) })
	return db
}

// Config returns a pgxpool.Config for the created database.
func (db *DB) Config() *pgxpool.Config {
	return db.cfg.Copy()
}

func (db *DB) close(ctx context.Context, t testing.TB) {
	cfg, err := pgx.ParseConfig(db.dsn)
	if err != nil {
		panic(err) // Already parsed once.
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		t.Error(err)
		return
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, killConnections, db.cfg.ConnConfig.Database); err != nil {
		t.Error(err)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf(dropDatabase, db.cfg.ConnConfig.Database)); err != nil {
		t.Error(err)
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf(dropRole, db.cfg.ConnConfig.User)); err != nil {
		t.Error(err)
	}
}

func randHex(t testing.TB) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	return hex.EncodeToString(b)
}
