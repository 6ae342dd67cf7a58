// Package storetest checks the behavior common to every datastore.Store.
package storetest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/datastore"
	"github.com/quay/addonrepo/test"
)

// NewStoreFunc returns a new, empty Store. Implementations should arrange
// for the Store to be closed when the test ends.
type NewStoreFunc func(t *testing.T) datastore.Store

// Run runs the common Store tests as subtests of "t".
func Run(t *testing.T, newStore NewStoreFunc) {
	t.Run("Empty", func(t *testing.T) { testEmpty(t, newStore(t)) })
	t.Run("Persist", func(t *testing.T) { testPersist(t, newStore(t)) })
	t.Run("Timestamp", func(t *testing.T) { testTimestamp(t, newStore(t)) })
	t.Run("Listed", func(t *testing.T) { testListed(t, newStore(t)) })
	t.Run("Broken", func(t *testing.T) { testBroken(t, newStore(t)) })
	t.Run("Installed", func(t *testing.T) { testInstalled(t, newStore(t)) })
	t.Run("Assets", func(t *testing.T) { testAssets(t, newStore(t)) })
	t.Run("Concurrent", func(t *testing.T) { testConcurrent(t, newStore(t)) })
}

func pkg(id, v string) *addonrepo.Package {
	return &addonrepo.Package{
		ID:      id,
		Name:    "Test " + id,
		Version: addonrepo.MustParseVersion(v),
		Path:    "http://example.com/" + id + "/" + id + "-" + v + ".zip",
		Dependencies: []addonrepo.Dependency{
			{ID: "xbmc.python", Version: addonrepo.MustParseVersion("3.0.0")},
		},
		Extension: addonrepo.Plugin{Library: "default.py", Provides: []string{"video"}},
	}
}

func snapshot(repo, sum string, pkgs ...*addonrepo.Package) *addonrepo.Snapshot {
	return &addonrepo.Snapshot{
		Repository: repo,
		Ref:        uuid.New(),
		Checksum:   sum,
		LastSync:   time.Now().UTC().Truncate(time.Millisecond),
		Packages:   pkgs,
	}
}

func testEmpty(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	sum, err := s.Checksum(ctx, "repository.none")
	if err != nil {
		t.Fatal(err)
	}
	if sum != "" {
		t.Errorf("unexpected checksum: %q", sum)
	}
	snap, err := s.Snapshot(ctx, "repository.none")
	if err != nil {
		t.Fatal(err)
	}
	if snap != nil {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	ids, err := s.Repositories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("unexpected repositories: %v", ids)
	}
	if _, ok, err := s.ListedPackage(ctx, "plugin.none"); err != nil || ok {
		t.Errorf("ListedPackage: %v, %v", ok, err)
	}
	if _, ok, err := s.InstalledVersion(ctx, "plugin.none"); err != nil || ok {
		t.Errorf("InstalledVersion: %v, %v", ok, err)
	}
	if r, err := s.BrokenReason(ctx, "plugin.none"); err != nil || r != "" {
		t.Errorf("BrokenReason: %q, %v", r, err)
	}
	// Touching a repository that was never synced is not an error.
	if err := s.SetTimestamp(ctx, "repository.none", time.Now()); err != nil {
		t.Error(err)
	}
}

func testPersist(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	want := snapshot("repository.test", "aaabbb", pkg("plugin.a", "1.0.0"), pkg("plugin.b", "2.1"))
	if err := s.Persist(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Snapshot(ctx, "repository.test")
	if err != nil {
		t.Fatal(err)
	}
	compareSnapshot(t, got, want)

	// A second sync replaces the listing wholesale.
	want = snapshot("repository.test", "cccddd", pkg("plugin.b", "2.2"))
	if err := s.Persist(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err = s.Snapshot(ctx, "repository.test")
	if err != nil {
		t.Fatal(err)
	}
	compareSnapshot(t, got, want)
	sum, err := s.Checksum(ctx, "repository.test")
	if err != nil {
		t.Fatal(err)
	}
	if sum != "cccddd" {
		t.Errorf("got checksum %q, want %q", sum, "cccddd")
	}
	if _, ok, err := s.ListedPackage(ctx, "plugin.a"); err != nil || ok {
		t.Errorf("removed package still listed: %v, %v", ok, err)
	}
	ids, err := s.Repositories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"repository.test"}; !cmp.Equal(ids, want) {
		t.Error(cmp.Diff(ids, want))
	}
}

func compareSnapshot(t *testing.T, got, want *addonrepo.Snapshot) {
	t.Helper()
	if got == nil {
		t.Fatal("missing snapshot")
	}
	if got.Ref != want.Ref || got.Checksum != want.Checksum || got.Repository != want.Repository {
		t.Errorf("got: %v %q %q, want: %v %q %q",
			got.Ref, got.Checksum, got.Repository, want.Ref, want.Checksum, want.Repository)
	}
	if !got.LastSync.Equal(want.LastSync) {
		t.Errorf("got time %v, want %v", got.LastSync, want.LastSync)
	}
	if !cmp.Equal(got.Packages, want.Packages) {
		t.Error(cmp.Diff(got.Packages, want.Packages))
	}
}

func testTimestamp(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	snap := snapshot("repository.test", "aaa", pkg("plugin.a", "1.0"))
	if err := s.Persist(ctx, snap); err != nil {
		t.Fatal(err)
	}
	later := snap.LastSync.Add(time.Hour)
	if err := s.SetTimestamp(ctx, "repository.test", later); err != nil {
		t.Fatal(err)
	}
	got, err := s.Snapshot(ctx, "repository.test")
	if err != nil {
		t.Fatal(err)
	}
	if !got.LastSync.Equal(later) {
		t.Errorf("got time %v, want %v", got.LastSync, later)
	}
	if got.Checksum != "aaa" || got.Ref != snap.Ref || len(got.Packages) != 1 {
		t.Errorf("timestamp update changed the listing: %+v", got)
	}
}

func testListed(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	if err := s.Persist(ctx, snapshot("repository.a", "a", pkg("plugin.x", "1.0"), pkg("plugin.y", "1.0"))); err != nil {
		t.Fatal(err)
	}
	if err := s.Persist(ctx, snapshot("repository.b", "b", pkg("plugin.x", "2.0~beta1"))); err != nil {
		t.Fatal(err)
	}
	p, ok, err := s.ListedPackage(ctx, "plugin.x")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("plugin.x not listed")
	}
	if got, want := p, pkg("plugin.x", "2.0~beta1"); !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
	v, ok, err := s.ListedVersion(ctx, "plugin.y")
	if err != nil || !ok {
		t.Fatalf("ListedVersion: %v, %v", ok, err)
	}
	if want := addonrepo.MustParseVersion("1.0"); !v.Equal(want) {
		t.Errorf("got %v, want %v", v, want)
	}
}

func testBroken(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	const id = "plugin.a"
	for _, r := range []string{"old", addonrepo.BrokenDependenciesNotMet} {
		if err := s.SetBrokenReason(ctx, id, r); err != nil {
			t.Fatal(err)
		}
		got, err := s.BrokenReason(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if got != r {
			t.Errorf("got %q, want %q", got, r)
		}
	}
	if err := s.SetBrokenReason(ctx, id, ""); err != nil {
		t.Fatal(err)
	}
	if got, err := s.BrokenReason(ctx, id); err != nil || got != "" {
		t.Errorf("BrokenReason after clear: %q, %v", got, err)
	}

	if ok, err := s.Disabled(ctx, id); err != nil || ok {
		t.Errorf("Disabled before DisablePackage: %v, %v", ok, err)
	}
	for range 2 {
		if err := s.DisablePackage(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	if ok, err := s.Disabled(ctx, id); err != nil || !ok {
		t.Errorf("Disabled: %v, %v", ok, err)
	}
}

func testInstalled(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	const id = "plugin.a"
	for _, v := range []string{"1.0", "1.1"} {
		if err := s.SetInstalled(ctx, id, addonrepo.MustParseVersion(v)); err != nil {
			t.Fatal(err)
		}
		got, ok, err := s.InstalledVersion(ctx, id)
		if err != nil || !ok {
			t.Fatalf("InstalledVersion: %v, %v", ok, err)
		}
		if want := addonrepo.MustParseVersion(v); !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	if err := s.SetInstalled(ctx, id, addonrepo.Version{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.InstalledVersion(ctx, id); err != nil || ok {
		t.Errorf("InstalledVersion after removal: %v, %v", ok, err)
	}
}

func testAssets(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	const u = "http://example.com/plugin.a/icon.png"
	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.SetAssetChecked(ctx, u, now); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.AssetChecked(ctx, u)
	if err != nil || !ok {
		t.Fatalf("AssetChecked: %v, %v", ok, err)
	}
	if !got.Equal(now) {
		t.Errorf("got %v, want %v", got, now)
	}
	if err := s.InvalidateCachedAsset(ctx, u); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.AssetChecked(ctx, u); err != nil || ok {
		t.Errorf("AssetChecked after invalidation: %v, %v", ok, err)
	}
	if err := s.InvalidateCachedAsset(ctx, "http://example.com/uncached.png"); err != nil {
		t.Error(err)
	}
}

func testConcurrent(t *testing.T, s datastore.Store) {
	ctx := test.Logging(t)
	const n = 8
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			repo := fmt.Sprintf("repository.%d", i)
			for j := range 3 {
				snap := snapshot(repo, fmt.Sprint(j), pkg("plugin.shared", fmt.Sprintf("%d.%d", i, j)))
				if err := s.Persist(ctx, snap); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	ids, err := s.Repositories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != n {
		t.Errorf("got %d repositories, want %d", len(ids), n)
	}
	v, ok, err := s.ListedVersion(ctx, "plugin.shared")
	if err != nil || !ok {
		t.Fatalf("ListedVersion: %v, %v", ok, err)
	}
	if want := addonrepo.MustParseVersion(fmt.Sprintf("%d.2", n-1)); !v.Equal(want) {
		t.Errorf("got %v, want %v", v, want)
	}
}
