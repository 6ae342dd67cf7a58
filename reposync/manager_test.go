package reposync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/test"
)

func testManager(t *testing.T, opts ...Option) (*Manager, *memStore) {
	t.Helper()
	store := newMemStore()
	c := &Components{
		Store: store,
		Checksums: staticSums{
			srcA.Checksum: "aaa",
			srcB.Checksum: "bbb",
		},
		Parser: staticParser{
			srcA.Info: {pkg("pkg1", "1.0")},
			srcB.Info: {pkg("pkg2", "1.0")},
		},
	}
	bad := srcB
	bad.Info = "http://example.com/missing/addons.xml"
	reg := NewRegistry(
		&addonrepo.Repository{ID: "repository.a", Sources: []addonrepo.Source{srcA}},
		&addonrepo.Repository{ID: "repository.b", Sources: []addonrepo.Source{srcB}},
		&addonrepo.Repository{ID: "repository.bad", Sources: []addonrepo.Source{bad}},
	)
	m, err := NewManager(reg, c, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return m, store
}

func TestManagerRun(t *testing.T) {
	ctx := test.Logging(t)
	m, store := testManager(t, WithBatchSize(2))

	err := m.Run(ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, addonrepo.ErrNetwork) {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "repository.bad") {
		t.Errorf("error doesn't name the repository: %v", err)
	}
	for _, id := range []string{"repository.a", "repository.b"} {
		if _, ok := store.listing[id]; !ok {
			t.Errorf("%s: no listing stored", id)
		}
	}
	if _, ok := store.listing["repository.bad"]; ok {
		t.Error("listing stored for failed repository")
	}
}

func TestManagerRunSkipsLocked(t *testing.T) {
	ctx := test.Logging(t)
	locks := NewLocker()
	m, store := testManager(t, WithLocker(locks))
	unlock, ok := locks.TryLock("repository.a")
	if !ok {
		t.Fatal("unable to lock")
	}
	defer unlock()

	m.Run(ctx)
	if _, ok := store.listing["repository.a"]; ok {
		t.Error("locked repository was synced")
	}
	if _, ok := store.listing["repository.b"]; !ok {
		t.Error("unlocked repository was not synced")
	}
}

func TestManagerSync(t *testing.T) {
	ctx := test.Logging(t)
	m, store := testManager(t)

	res, err := m.Sync(ctx, "repository.a")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.Packages, 1; got != want {
		t.Errorf("got %d packages, want %d", got, want)
	}
	if got, want := store.checksum["repository.a"], "aaa"; got != want {
		t.Errorf("got checksum %q, want %q", got, want)
	}

	_, err = m.Sync(ctx, "repository.missing")
	if !errors.Is(err, addonrepo.ErrInvalid) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestManagerSyncWaits(t *testing.T) {
	ctx := test.Logging(t)
	locks := NewLocker()
	m, _ := testManager(t, WithLocker(locks))
	unlock, ok := locks.TryLock("repository.a")
	if !ok {
		t.Fatal("unable to lock")
	}
	defer unlock()

	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err := m.Sync(tctx, "repository.a")
	if !errors.Is(err, addonrepo.ErrCanceled) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestManagerStart(t *testing.T) {
	ctx := test.Logging(t)
	m, store := testManager(t, WithInterval(5*time.Millisecond))
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err := m.Start(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("unexpected error: %v", err)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if got, want := store.persists, 2; got != want {
		t.Errorf("got %d persists, want %d", got, want)
	}
}

func TestNewManager(t *testing.T) {
	reg := NewRegistry()
	if _, err := NewManager(reg, &Components{}, WithBatchSize(0)); err == nil {
		t.Error("expected error for zero batch size")
	}
	if _, err := NewManager(reg, &Components{}, WithInterval(-time.Second)); err == nil {
		t.Error("expected error for negative interval")
	}
	if _, err := NewManager(nil, &Components{}); err == nil {
		t.Error("expected error for missing registry")
	}
}
