package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/datastore"
	"github.com/quay/addonrepo/listing"
)

var _ datastore.Store = (*Store)(nil)

// Checksum implements reposync.Store.
func (s *Store) Checksum(ctx context.Context, repo string) (sum string, err error) {
	defer observe("Checksum", &err)()
	const query = `SELECT checksum FROM repo WHERE id = $1;`
	err = s.pool.QueryRow(ctx, query, repo).Scan(&sum)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("postgres: checksum: %w", err)
	}
	return sum, nil
}

// SetTimestamp implements reposync.Store.
func (s *Store) SetTimestamp(ctx context.Context, repo string, t time.Time) (err error) {
	defer observe("SetTimestamp", &err)()
	const query = `UPDATE repo SET lastcheck = $2 WHERE id = $1;`
	if _, err = s.pool.Exec(ctx, query, repo, t); err != nil {
		return fmt.Errorf("postgres: set timestamp: %w", err)
	}
	return nil
}

// Persist implements reposync.Store.
//
// The repository row and its addon rows are replaced in one transaction.
func (s *Store) Persist(ctx context.Context, snap *addonrepo.Snapshot) (err error) {
	defer observe("Persist", &err)()
	const (
		upsertRepo = `
INSERT INTO repo (id, ref, checksum, lastcheck, listing)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id)
DO UPDATE SET
	ref = excluded.ref,
	checksum = excluded.checksum,
	lastcheck = excluded.lastcheck,
	listing = excluded.listing;
`
		clearAddons = `DELETE FROM addon WHERE repo = $1;`
		insertAddon = `
INSERT INTO addon (repo, id, version, data)
VALUES ($1, $2, $3, $4)
ON CONFLICT (repo, id)
DO UPDATE SET version = excluded.version, data = excluded.data;
`
	)
	log := zerolog.Ctx(ctx).With().
		Str("component", "datastore/postgres/Store.Persist").
		Str("repository", snap.Repository).
		Logger()
	enc, err := listing.Encode(snap.Packages)
	if err != nil {
		return err
	}
	var b pgx.Batch
	for _, p := range snap.Packages {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("postgres: persist: encoding %q: %w", p.ID, err)
		}
		b.Queue(insertAddon, snap.Repository, p.ID, p.Version.String(), data)
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertRepo,
			snap.Repository, snap.Ref, snap.Checksum, snap.LastSync, enc); err != nil {
			return fmt.Errorf("repo: %w", err)
		}
		if _, err := tx.Exec(ctx, clearAddons, snap.Repository); err != nil {
			return fmt.Errorf("clearing addons: %w", err)
		}
		if b.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, &b).Close(); err != nil {
			return fmt.Errorf("addons: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres: persist: %w", err)
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
func (s *Store) InvalidateCachedAsset(ctx context.Context, path string) (err error) {
	defer observe("InvalidateCachedAsset", &err)()
	const query = `UPDATE texture SET lasthashcheck = NULL WHERE url = $1;`
	if _, err = s.pool.Exec(ctx, query, path); err != nil {
		return fmt.Errorf("postgres: invalidate asset: %w", err)
	}
	return nil
}

// SetAssetChecked implements datastore.AssetCache.
func (s *Store) SetAssetChecked(ctx context.Context, u string, t time.Time) (err error) {
	defer observe("SetAssetChecked", &err)()
	const query = `
INSERT INTO texture (url, lasthashcheck)
VALUES ($1, $2)
ON CONFLICT (url)
DO UPDATE SET lasthashcheck = excluded.lasthashcheck;
`
	if _, err = s.pool.Exec(ctx, query, u, t); err != nil {
		return fmt.Errorf("postgres: set asset checked: %w", err)
	}
	return nil
}

// AssetChecked implements datastore.AssetCache.
func (s *Store) AssetChecked(ctx context.Context, u string) (_ time.Time, _ bool, err error) {
	defer observe("AssetChecked", &err)()
	const query = `SELECT lasthashcheck FROM texture WHERE url = $1;`
	var t *time.Time
	err = s.pool.QueryRow(ctx, query, u).Scan(&t)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return time.Time{}, false, nil
	case err != nil:
		return time.Time{}, false, fmt.Errorf("postgres: asset checked: %w", err)
	case t == nil:
		return time.Time{}, false, nil
	}
	return *t, true, nil
}

// Snapshot implements datastore.Store.
func (s *Store) Snapshot(ctx context.Context, repo string) (_ *addonrepo.Snapshot, err error) {
	defer observe("Snapshot", &err)()
	const query = `SELECT ref, checksum, lastcheck, listing FROM repo WHERE id = $1;`
	var (
		ref  uuid.UUID
		enc  []byte
		snap = addonrepo.Snapshot{Repository: repo}
	)
	err = s.pool.QueryRow(ctx, query, repo).Scan(&ref, &snap.Checksum, &snap.LastSync, &enc)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("postgres: snapshot: %w", err)
	}
	snap.Ref = ref
	if snap.Packages, err = listing.Decode(enc); err != nil {
		return nil, fmt.Errorf("postgres: snapshot: %w", err)
	}
	return &snap, nil
}

// Repositories implements datastore.Store.
func (s *Store) Repositories(ctx context.Context) (_ []string, err error) {
	defer observe("Repositories", &err)()
	const query = `SELECT id FROM repo ORDER BY id;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: repositories: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: repositories: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ListedPackage implements depcheck.Store.
func (s *Store) ListedPackage(ctx context.Context, id string) (_ *addonrepo.Package, _ bool, err error) {
	defer observe("ListedPackage", &err)()
	const query = `SELECT data FROM addon WHERE id = $1;`
	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, false, fmt.Errorf("postgres: listed package: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, false, fmt.Errorf("postgres: listed package: %w", err)
	}
	var best *addonrepo.Package
	for _, b := range raw {
		var p addonrepo.Package
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, false, fmt.Errorf("postgres: listed package: decoding %q: %w", id, err)
		}
		if best == nil || p.Version.GreaterThan(best.Version) {
			best = &p
		}
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
func (s *Store) InstalledVersion(ctx context.Context, id string) (_ addonrepo.Version, _ bool, err error) {
	defer observe("InstalledVersion", &err)()
	const query = `SELECT version FROM installed WHERE id = $1;`
	var v string
	err = s.pool.QueryRow(ctx, query, id).Scan(&v)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return addonrepo.Version{}, false, nil
	case err != nil:
		return addonrepo.Version{}, false, fmt.Errorf("postgres: installed version: %w", err)
	}
	return addonrepo.VersionOrZero(v), true, nil
}

// SetInstalled implements datastore.Installed.
func (s *Store) SetInstalled(ctx context.Context, id string, v addonrepo.Version) (err error) {
	defer observe("SetInstalled", &err)()
	const (
		remove = `DELETE FROM installed WHERE id = $1;`
		upsert = `
INSERT INTO installed (id, version)
VALUES ($1, $2)
ON CONFLICT (id)
DO UPDATE SET version = excluded.version;
`
	)
	if v.IsZero() {
		_, err = s.pool.Exec(ctx, remove, id)
	} else {
		_, err = s.pool.Exec(ctx, upsert, id, v.String())
	}
	if err != nil {
		return fmt.Errorf("postgres: set installed: %w", err)
	}
	return nil
}

// BrokenReason implements broken.Store.
func (s *Store) BrokenReason(ctx context.Context, id string) (r string, err error) {
	defer observe("BrokenReason", &err)()
	const query = `SELECT reason FROM broken WHERE id = $1;`
	err = s.pool.QueryRow(ctx, query, id).Scan(&r)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("postgres: broken reason: %w", err)
	}
	return r, nil
}

// SetBrokenReason implements broken.Store. An empty reason clears the record.
func (s *Store) SetBrokenReason(ctx context.Context, id, reason string) (err error) {
	defer observe("SetBrokenReason", &err)()
	const (
		remove = `DELETE FROM broken WHERE id = $1;`
		upsert = `
INSERT INTO broken (id, reason)
VALUES ($1, $2)
ON CONFLICT (id)
DO UPDATE SET reason = excluded.reason;
`
	)
	if reason == "" {
		_, err = s.pool.Exec(ctx, remove, id)
	} else {
		_, err = s.pool.Exec(ctx, upsert, id, reason)
	}
	if err != nil {
		return fmt.Errorf("postgres: set broken reason: %w", err)
	}
	return nil
}

// DisablePackage implements broken.Store.
func (s *Store) DisablePackage(ctx context.Context, id string) (err error) {
	defer observe("DisablePackage", &err)()
	const query = `INSERT INTO disabled (id) VALUES ($1) ON CONFLICT (id) DO NOTHING;`
	if _, err = s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("postgres: disable: %w", err)
	}
	return nil
}

// Disabled implements datastore.Installed.
func (s *Store) Disabled(ctx context.Context, id string) (ok bool, err error) {
	defer observe("Disabled", &err)()
	const query = `SELECT EXISTS(SELECT 1 FROM disabled WHERE id = $1);`
	if err = s.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("postgres: disabled: %w", err)
	}
	return ok, nil
}
