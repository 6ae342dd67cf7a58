package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/datastore"
	"github.com/quay/addonrepo/datastore/storetest"
	"github.com/quay/addonrepo/test"
)

func newStore(t *testing.T) datastore.Store {
	ctx := test.Logging(t)
	s, err := Open(ctx, filepath.Join(t.TempDir(), "addons.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Error(err)
		}
	})
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, newStore)
}

func TestReopen(t *testing.T) {
	ctx := test.Logging(t)
	f := filepath.Join(t.TempDir(), "addons.db")
	s, err := Open(ctx, f)
	if err != nil {
		t.Fatal(err)
	}
	snap := &addonrepo.Snapshot{
		Repository: "repository.test",
		Ref:        uuid.New(),
		Checksum:   "abc",
	}
	if err := s.Persist(ctx, snap); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Migrations are not rerun on an existing database.
	s, err = Open(ctx, f)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	sum, err := s.Checksum(ctx, "repository.test")
	if err != nil {
		t.Fatal(err)
	}
	if sum != "abc" {
		t.Errorf("got checksum %q, want %q", sum, "abc")
	}
}

func TestOpenError(t *testing.T) {
	ctx := test.Logging(t)
	_, err := Open(ctx, filepath.Join(t.TempDir(), "missing", "dir", "addons.db"))
	if !errors.Is(err, addonrepo.ErrPrecondition) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPersistCanceled(t *testing.T) {
	ctx := test.Logging(t)
	s := newStore(t)
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err := s.Persist(cctx, &addonrepo.Snapshot{Repository: "repository.test", Ref: uuid.New(), Checksum: "abc"})
	if err == nil {
		t.Fatal("expected error")
	}
	sum, err := s.Checksum(ctx, "repository.test")
	if err != nil {
		t.Fatal(err)
	}
	if sum != "" {
		t.Errorf("canceled persist wrote checksum %q", sum)
	}
}
