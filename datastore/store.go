// Package datastore defines the persistent state used by repository syncs.
//
// Implementations live in subpackages; the "storetest" package holds the
// behavior every implementation must have.
package datastore

import (
	"context"
	"time"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/broken"
	"github.com/quay/addonrepo/depcheck"
	"github.com/quay/addonrepo/reposync"
)

// Store is the union of every store interface the sync engine consumes, plus
// the read side used by tools.
//
// Implementations must be safe for concurrent use.
type Store interface {
	reposync.Store
	depcheck.Store
	broken.Store
	Installed
	AssetCache

	// Snapshot returns the stored result of the last successful sync of the
	// repository "repo". A nil Snapshot is returned if the repository has
	// never been synced.
	Snapshot(ctx context.Context, repo string) (*addonrepo.Snapshot, error)
	// Repositories returns the identifiers of every repository with a stored
	// row, sorted.
	Repositories(ctx context.Context) ([]string, error)
	Close() error
}

// Installed records local package state.
type Installed interface {
	// SetInstalled records "id" as installed at version "v". The zero Version
	// removes the record.
	SetInstalled(ctx context.Context, id string, v addonrepo.Version) error
	// Disabled reports whether "id" has been disabled.
	Disabled(ctx context.Context, id string) (bool, error)
}

// AssetCache is the bookkeeping for locally cached package art.
type AssetCache interface {
	// SetAssetChecked records "url" as cached and verified at "t".
	SetAssetChecked(ctx context.Context, url string, t time.Time) error
	// AssetChecked reports when "url" was last verified. The second return
	// is false if the asset isn't cached or has been invalidated.
	AssetChecked(ctx context.Context, url string) (time.Time, bool, error)
}
