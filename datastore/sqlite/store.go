package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/listing"
)

// Checksum implements reposync.Store.
func (s *Store) Checksum(ctx context.Context, repo string) (string, error) {
	var sum string
	err := s.db.QueryRowContext(ctx,
		`SELECT checksum FROM repo WHERE id = ?;`, repo).Scan(&sum)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("sqlite: checksum: %w", err)
	}
	return sum, nil
}

// SetTimestamp implements reposync.Store.
func (s *Store) SetTimestamp(ctx context.Context, repo string, t time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE repo SET lastcheck = ? WHERE id = ?;`, t.UnixNano(), repo); err != nil {
		return fmt.Errorf("sqlite: set timestamp: %w", err)
	}
	return nil
}

// Persist implements reposync.Store.
func (s *Store) Persist(ctx context.Context, snap *addonrepo.Snapshot) (err error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "datastore/sqlite/Store.Persist").
		Str("repository", snap.Repository).
		Logger()
	enc, err := listing.Encode(snap.Packages)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: persist: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const upsert = `INSERT INTO repo (id, ref, checksum, lastcheck, listing)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		ref = excluded.ref,
		checksum = excluded.checksum,
		lastcheck = excluded.lastcheck,
		listing = excluded.listing;`
	if _, err = tx.ExecContext(ctx, upsert,
		snap.Repository, snap.Ref.String(), snap.Checksum, snap.LastSync.UnixNano(), enc); err != nil {
		return fmt.Errorf("sqlite: persist: repo: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM addon WHERE repo = ?;`, snap.Repository); err != nil {
		return fmt.Errorf("sqlite: persist: clearing addons: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO addon (repo, id, version, data) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("sqlite: persist: %w", err)
	}
	defer stmt.Close()
	for _, p := range snap.Packages {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("sqlite: persist: encoding %q: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, snap.Repository, p.ID, p.Version.String(), b); err != nil {
			return fmt.Errorf("sqlite: persist: addon %q: %w", p.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: persist: commit: %w", err)
	}
	log.Debug().
		Stringer("ref", snap.Ref).
		Int("count", len(snap.Packages)).
		Msg("stored listing")
	return nil
}

// InvalidateCachedAsset implements reposync.Store.
//
// The cache entry is kept; clearing its check time makes the next use
// revalidate it.
func (s *Store) InvalidateCachedAsset(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE texture SET lasthashcheck = NULL WHERE url = ?;`, path); err != nil {
		return fmt.Errorf("sqlite: invalidate asset: %w", err)
	}
	return nil
}

// SetAssetChecked implements datastore.AssetCache.
func (s *Store) SetAssetChecked(ctx context.Context, u string, t time.Time) error {
	const q = `INSERT INTO texture (url, lasthashcheck) VALUES (?, ?)
	ON CONFLICT (url) DO UPDATE SET lasthashcheck = excluded.lasthashcheck;`
	if _, err := s.db.ExecContext(ctx, q, u, t.UnixNano()); err != nil {
		return fmt.Errorf("sqlite: set asset checked: %w", err)
	}
	return nil
}

// AssetChecked implements datastore.AssetCache.
func (s *Store) AssetChecked(ctx context.Context, u string) (time.Time, bool, error) {
	var n sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT lasthashcheck FROM texture WHERE url = ?;`, u).Scan(&n)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, fmt.Errorf("sqlite: asset checked: %w", err)
	case !n.Valid:
		return time.Time{}, false, nil
	}
	return time.Unix(0, n.Int64).UTC(), true, nil
}

// Snapshot implements datastore.Store.
func (s *Store) Snapshot(ctx context.Context, repo string) (*addonrepo.Snapshot, error) {
	var (
		ref  string
		ts   int64
		enc  []byte
		snap = addonrepo.Snapshot{Repository: repo}
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT ref, checksum, lastcheck, listing FROM repo WHERE id = ?;`, repo).
		Scan(&ref, &snap.Checksum, &ts, &enc)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("sqlite: snapshot: %w", err)
	}
	if snap.Ref, err = uuid.Parse(ref); err != nil {
		return nil, fmt.Errorf("sqlite: snapshot: bad ref: %w", err)
	}
	snap.LastSync = time.Unix(0, ts).UTC()
	if snap.Packages, err = listing.Decode(enc); err != nil {
		return nil, fmt.Errorf("sqlite: snapshot: %w", err)
	}
	return &snap, nil
}

// Repositories implements datastore.Store.
func (s *Store) Repositories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM repo ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: repositories: %w", err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: repositories: scan error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: repositories: %w", err)
	}
	return ids, nil
}

// ListedPackage implements depcheck.Store.
//
// Versions are compared after loading, as the database can't order them.
func (s *Store) ListedPackage(ctx context.Context, id string) (*addonrepo.Package, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM addon WHERE id = ?;`, id)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: listed package: %w", err)
	}
	defer rows.Close()
	var best *addonrepo.Package
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, false, fmt.Errorf("sqlite: listed package: scan error: %w", err)
		}
		var p addonrepo.Package
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, false, fmt.Errorf("sqlite: listed package: decoding %q: %w", id, err)
		}
		if best == nil || p.Version.GreaterThan(best.Version) {
			best = &p
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("sqlite: listed package: %w", err)
	}
	return best, best != nil, nil
}

// ListedVersion implements broken.Store.
func (s *Store) ListedVersion(ctx context.Context, id string) (addonrepo.Version, bool, error) {
	p, ok, err := s.ListedPackage(ctx, id)
	if err != nil || !ok {
		return addonrepo.Version{}, ok, err
	}
	return p.Version, true, nil
}

// InstalledVersion implements depcheck.Store and broken.Store.
func (s *Store) InstalledVersion(ctx context.Context, id string) (addonrepo.Version, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM installed WHERE id = ?;`, id).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return addonrepo.Version{}, false, nil
	case err != nil:
		return addonrepo.Version{}, false, fmt.Errorf("sqlite: installed version: %w", err)
	}
	return addonrepo.VersionOrZero(v), true, nil
}

// SetInstalled implements datastore.Installed.
func (s *Store) SetInstalled(ctx context.Context, id string, v addonrepo.Version) error {
	var err error
	if v.IsZero() {
		_, err = s.db.ExecContext(ctx, `DELETE FROM installed WHERE id = ?;`, id)
	} else {
		_, err = s.db.ExecContext(ctx, `INSERT INTO installed (id, version) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET version = excluded.version;`, id, v.String())
	}
	if err != nil {
		return fmt.Errorf("sqlite: set installed: %w", err)
	}
	return nil
}

// BrokenReason implements broken.Store.
func (s *Store) BrokenReason(ctx context.Context, id string) (string, error) {
	var r string
	err := s.db.QueryRowContext(ctx,
		`SELECT reason FROM broken WHERE id = ?;`, id).Scan(&r)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("sqlite: broken reason: %w", err)
	}
	return r, nil
}

// SetBrokenReason implements broken.Store. An empty reason clears the record.
func (s *Store) SetBrokenReason(ctx context.Context, id, reason string) error {
	var err error
	if reason == "" {
		_, err = s.db.ExecContext(ctx, `DELETE FROM broken WHERE id = ?;`, id)
	} else {
		_, err = s.db.ExecContext(ctx, `INSERT INTO broken (id, reason) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET reason = excluded.reason;`, id, reason)
	}
	if err != nil {
		return fmt.Errorf("sqlite: set broken reason: %w", err)
	}
	return nil
}

// DisablePackage implements broken.Store.
func (s *Store) DisablePackage(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO disabled (id, disabled_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING;`,
		id, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("sqlite: disable: %w", err)
	}
	return nil
}

// Disabled implements datastore.Installed.
func (s *Store) Disabled(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM disabled WHERE id = ?;`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("sqlite: disabled: %w", err)
	}
	return n > 0, nil
}
