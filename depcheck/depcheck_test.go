package depcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/test"
)

type fakeStore struct {
	installed map[string]string
	listed    map[string]*addonrepo.Package
}

func (f *fakeStore) InstalledVersion(_ context.Context, id string) (addonrepo.Version, bool, error) {
	v, ok := f.installed[id]
	if !ok {
		return addonrepo.Version{}, false, nil
	}
	return addonrepo.MustParseVersion(v), true, nil
}

func (f *fakeStore) ListedPackage(_ context.Context, id string) (*addonrepo.Package, bool, error) {
	p, ok := f.listed[id]
	return p, ok, nil
}

func dep(id, v string) addonrepo.Dependency {
	return addonrepo.Dependency{ID: id, Version: addonrepo.MustParseVersion(v)}
}

func listed(id, v string, deps ...addonrepo.Dependency) *addonrepo.Package {
	return &addonrepo.Package{ID: id, Version: addonrepo.MustParseVersion(v), Dependencies: deps}
}

func TestSatisfied(t *testing.T) {
	ctx := test.Logging(t)
	store := &fakeStore{
		installed: map[string]string{
			"xbmc.python":   "2.14.0",
			"script.old":    "0.9.0",
			"script.module": "1.0.0",
		},
		listed: map[string]*addonrepo.Package{
			"script.old":   listed("script.old", "1.1.0"),
			"script.deep":  listed("script.deep", "1.0.0", dep("script.leaf", "1.0.0")),
			"script.leaf":  listed("script.leaf", "1.0.0", dep("xbmc.python", "2.1.0")),
			"script.cycle": listed("script.cycle", "1.0.0", dep("script.loop", "1.0.0")),
			"script.loop":  listed("script.loop", "1.0.0", dep("script.cycle", "1.0.0")),
			"script.unmet": listed("script.unmet", "1.0.0", dep("script.nowhere", "1.0.0")),
			"script.b":     listed("script.b", "1.0.0"),
			"script.c":     listed("script.c", "1.0.0", dep("script.b", "1.0.0")),
		},
	}
	c := Checker{
		Store: store,
		Provided: map[string]addonrepo.Version{
			"xbmc.gui": addonrepo.MustParseVersion("5.17.0"),
		},
	}
	tt := []struct {
		Name string
		Deps []addonrepo.Dependency
		Want bool
	}{
		{Name: "None", Want: true},
		{Name: "Installed", Deps: []addonrepo.Dependency{dep("xbmc.python", "2.1.0")}, Want: true},
		{Name: "InstalledTooOld", Deps: []addonrepo.Dependency{dep("xbmc.python", "3.0.0")}, Want: false},
		{Name: "ListedNewer", Deps: []addonrepo.Dependency{dep("script.old", "1.0.0")}, Want: true},
		{Name: "ListedTooOld", Deps: []addonrepo.Dependency{dep("script.old", "2.0.0")}, Want: false},
		{Name: "Missing", Deps: []addonrepo.Dependency{dep("script.nowhere", "0.1.0")}, Want: false},
		{Name: "Optional", Deps: []addonrepo.Dependency{{ID: "script.nowhere", Optional: true}}, Want: true},
		{Name: "Recursive", Deps: []addonrepo.Dependency{dep("script.deep", "1.0.0")}, Want: true},
		{Name: "RecursiveUnmet", Deps: []addonrepo.Dependency{dep("script.unmet", "1.0.0")}, Want: false},
		{Name: "Cycle", Deps: []addonrepo.Dependency{dep("script.cycle", "1.0.0")}, Want: true},
		{Name: "AnyVersion", Deps: []addonrepo.Dependency{{ID: "script.module"}}, Want: true},
		{
			Name: "StricterAfterVisit",
			Deps: []addonrepo.Dependency{dep("script.c", "1.0.0"), dep("script.b", "2.0.0")},
			Want: false,
		},
		{
			Name: "LooserAfterVisit",
			Deps: []addonrepo.Dependency{dep("script.c", "1.0.0"), dep("script.b", "0.5.0")},
			Want: true,
		},
		{Name: "SelfTooNew", Deps: []addonrepo.Dependency{dep("script.cycle", "2.0.0")}, Want: false},
		{Name: "Provided", Deps: []addonrepo.Dependency{dep("xbmc.gui", "5.15.0")}, Want: true},
		{Name: "ProvidedTooOld", Deps: []addonrepo.Dependency{dep("xbmc.gui", "6.0.0")}, Want: false},
	}
	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := test.Logging(t, ctx)
			got, err := c.Satisfied(ctx, &addonrepo.Package{ID: "plugin.test", Dependencies: tc.Deps})
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.Want {
				t.Errorf("got: %v, want: %v", got, tc.Want)
			}
		})
	}
}

func TestSatisfiedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(test.Logging(t))
	cancel()
	c := Checker{Store: &fakeStore{}}
	_, err := c.Satisfied(ctx, &addonrepo.Package{ID: "plugin.test", Dependencies: []addonrepo.Dependency{dep("x", "1.0")}})
	if !errors.Is(err, addonrepo.ErrCanceled) {
		t.Errorf("unexpected error: %v", err)
	}
}
