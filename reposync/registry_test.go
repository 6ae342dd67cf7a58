package reposync

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quay/addonrepo"
)

func TestRegistry(t *testing.T) {
	in := &addonrepo.Repository{
		ID:      "repository.b",
		Sources: []addonrepo.Source{{Info: "http://example.com/addons.xml"}},
	}
	reg := NewRegistry(in)
	reg.Register(&addonrepo.Repository{ID: "repository.a"})

	// Changes to the caller's copy don't leak in.
	in.Sources[0].Info = "changed"
	got, ok := reg.Get("repository.b")
	if !ok {
		t.Fatal("missing repository")
	}
	if got.Sources[0].Info != "http://example.com/addons.xml" {
		t.Error("registry shares sources with caller")
	}
	// Nor do changes to returned copies.
	got.Sources[0].Info = "changed again"
	got, _ = reg.Get("repository.b")
	if got.Sources[0].Info != "http://example.com/addons.xml" {
		t.Error("registry shares sources with Get result")
	}

	var ids []string
	for _, r := range reg.List() {
		ids = append(ids, r.ID)
	}
	if want := []string{"repository.a", "repository.b"}; !cmp.Equal(ids, want) {
		t.Error(cmp.Diff(ids, want))
	}

	if !reg.Unregister("repository.a") {
		t.Error("expected repository to be present")
	}
	if reg.Unregister("repository.a") {
		t.Error("expected repository to be gone")
	}
	if _, ok := reg.Get("repository.a"); ok {
		t.Error("expected repository to be gone")
	}
}
