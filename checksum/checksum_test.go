package checksum

import (
	"context"
	"testing"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/test"
)

type mapLoader map[string]string

func (m mapLoader) Fetch(_ context.Context, u string) ([]byte, error) {
	s, ok := m[u]
	if !ok {
		return nil, &addonrepo.Error{Op: "test", Kind: addonrepo.ErrNetwork, Message: "not found"}
	}
	return []byte(s), nil
}

func TestFetch(t *testing.T) {
	ctx := test.Logging(t)
	f := Fetcher{Loader: mapLoader{
		"http://example.com/addons.xml.md5": "abc123\r\n",
		"http://example.com/empty.md5":      "",
	}}
	if got, want := f.Fetch(ctx, "http://example.com/addons.xml.md5"), "abc123"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	if got := f.Fetch(ctx, "http://example.com/empty.md5"); got != "" {
		t.Errorf("got: %q, want empty", got)
	}
	if got := f.Fetch(ctx, "http://example.com/missing.md5"); got != "" {
		t.Errorf("got: %q, want empty", got)
	}
}

func TestPackageHash(t *testing.T) {
	ctx := test.Logging(t)
	repo := &addonrepo.Repository{
		ID: "repository.test",
		Sources: []addonrepo.Source{
			{Datadir: "http://example.com/plain"},
			{Datadir: "http://example.com/hashed", Hashes: true},
		},
	}
	f := Fetcher{Loader: mapLoader{
		"http://example.com/hashed/plugin.a/plugin.a-1.0.zip.md5": "0123abcd  plugin.a-1.0.zip\n",
		"http://example.com/hashed/plugin.b/plugin.b-1.0.zip.md5": "4567ef\n",
		"http://example.com/plain/plugin.c/plugin.c-1.0.zip.md5":  "should not be read",
	}}
	tt := []struct {
		Path, Want string
	}{
		{Path: "http://example.com/hashed/plugin.a/plugin.a-1.0.zip", Want: "0123abcd"},
		{Path: "http://example.com/hashed/plugin.b/plugin.b-1.0.zip", Want: "4567ef"},
		{Path: "http://example.com/plain/plugin.c/plugin.c-1.0.zip", Want: ""},
		{Path: "http://example.com/hashed/plugin.d/plugin.d-1.0.zip", Want: ""},
		{Path: "http://elsewhere.example.com/plugin.e.zip", Want: ""},
	}
	for _, tc := range tt {
		got := f.PackageHash(ctx, repo, &addonrepo.Package{ID: "p", Path: tc.Path})
		if got != tc.Want {
			t.Errorf("%s: got: %q, want: %q", tc.Path, got, tc.Want)
		}
	}
}
