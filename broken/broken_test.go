package broken

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/language"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/test"
	mock_broken "github.com/quay/addonrepo/test/mock/broken"
)

type mocks struct {
	store  *mock_broken.MockStore
	deps   *mock_broken.MockDependencyChecker
	prompt *mock_broken.MockPrompter
}

func newReconciler(t *testing.T) (*Reconciler, mocks) {
	ctl := gomock.NewController(t)
	m := mocks{
		store:  mock_broken.NewMockStore(ctl),
		deps:   mock_broken.NewMockDependencyChecker(ctl),
		prompt: mock_broken.NewMockPrompter(ctl),
	}
	return &Reconciler{Store: m.store, Deps: m.deps, Prompt: m.prompt}, m
}

func pkg(id, v, broken string) *addonrepo.Package {
	return &addonrepo.Package{
		ID:      id,
		Name:    strings.ToUpper(id),
		Version: addonrepo.MustParseVersion(v),
		Broken:  broken,
	}
}

// NothingNewer sets up the version lookups for a package with no newer
// version anywhere.
func nothingNewer(m mocks, id string) {
	m.store.EXPECT().InstalledVersion(gomock.Any(), id).Return(addonrepo.Version{}, false, nil)
	m.store.EXPECT().ListedVersion(gomock.Any(), id).Return(addonrepo.Version{}, false, nil)
}

func TestDependenciesNotMet(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	x := pkg("pkgX", "1.0.0", "")
	nothingNewer(m, "pkgX")
	m.deps.EXPECT().Satisfied(gomock.Any(), x).Return(false, nil)
	m.store.EXPECT().BrokenReason(gomock.Any(), "pkgX").Return("", nil)
	m.prompt.EXPECT().
		YesNo(gomock.Any(), "PKGX", gomock.Any(), "Disable").
		DoAndReturn(func(_ context.Context, _, msg, _ string) (bool, error) {
			if !strings.Contains(msg, "dependencies") {
				t.Errorf("unexpected message: %q", msg)
			}
			return true, nil
		})
	m.store.EXPECT().DisablePackage(gomock.Any(), "pkgX").Return(nil).Times(1)

	got, err := r.Reconcile(ctx, []*addonrepo.Package{x})
	if err != nil {
		t.Fatal(err)
	}
	if x.Broken != addonrepo.BrokenDependenciesNotMet {
		t.Errorf("got reason %q", x.Broken)
	}
	want := Actions{Disabled: []string{"pkgX"}}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
}

func TestUnbroken(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	y := pkg("pkgY", "1.0.0", "")
	nothingNewer(m, "pkgY")
	m.deps.EXPECT().Satisfied(gomock.Any(), y).Return(true, nil)
	m.store.EXPECT().BrokenReason(gomock.Any(), "pkgY").Return("old reason", nil)
	m.store.EXPECT().SetBrokenReason(gomock.Any(), "pkgY", "").Return(nil)
	// No prompt expected: the controller fails the test on any call.

	got, err := r.Reconcile(ctx, []*addonrepo.Package{y})
	if err != nil {
		t.Fatal(err)
	}
	want := Actions{Unbroken: []string{"pkgY"}}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
}

func TestDeclined(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	p := pkg("pkgZ", "2.0.0", "Site closed")
	nothingNewer(m, "pkgZ")
	m.store.EXPECT().BrokenReason(gomock.Any(), "pkgZ").Return("", nil)
	m.prompt.EXPECT().
		YesNo(gomock.Any(), "PKGZ", gomock.Any(), "Disable").
		DoAndReturn(func(_ context.Context, _, msg, _ string) (bool, error) {
			if !strings.Contains(msg, "Site closed") {
				t.Errorf("unexpected message: %q", msg)
			}
			return false, nil
		})

	got, err := r.Reconcile(ctx, []*addonrepo.Package{p})
	if err != nil {
		t.Fatal(err)
	}
	want := Actions{Declined: []string{"pkgZ"}}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
}

func TestStillBroken(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	p := pkg("pkgB", "2.0.0", "Site closed")
	nothingNewer(m, "pkgB")
	m.store.EXPECT().BrokenReason(gomock.Any(), "pkgB").Return("Site closed", nil)

	got, err := r.Reconcile(ctx, []*addonrepo.Package{p})
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(got, Actions{}) {
		t.Error(cmp.Diff(got, Actions{}))
	}
}

func TestSkipNewer(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	installed := pkg("pkgI", "1.0.0", "broken")
	listed := pkg("pkgL", "1.0.0", "broken")
	m.store.EXPECT().InstalledVersion(gomock.Any(), "pkgI").Return(addonrepo.MustParseVersion("1.1.0"), true, nil)
	m.store.EXPECT().InstalledVersion(gomock.Any(), "pkgL").Return(addonrepo.MustParseVersion("0.9.0"), true, nil)
	m.store.EXPECT().ListedVersion(gomock.Any(), "pkgL").Return(addonrepo.MustParseVersion("1.0.1"), true, nil)

	got, err := r.Reconcile(ctx, []*addonrepo.Package{installed, listed})
	if err != nil {
		t.Fatal(err)
	}
	want := Actions{Skipped: []string{"pkgI", "pkgL"}}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
}

func TestSameVersionNotSkipped(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	p := pkg("pkgS", "1.0.0", "")
	m.store.EXPECT().InstalledVersion(gomock.Any(), "pkgS").Return(addonrepo.MustParseVersion("1.0.0"), true, nil)
	m.store.EXPECT().ListedVersion(gomock.Any(), "pkgS").Return(addonrepo.MustParseVersion("1.0.0"), true, nil)
	m.deps.EXPECT().Satisfied(gomock.Any(), p).Return(true, nil)
	m.store.EXPECT().BrokenReason(gomock.Any(), "pkgS").Return("", nil)

	got, err := r.Reconcile(ctx, []*addonrepo.Package{p})
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(got, Actions{}) {
		t.Error(cmp.Diff(got, Actions{}))
	}
}

func TestLanguage(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	r.Language = language.German
	p := pkg("pkgG", "1.0.0", "kaputt")
	nothingNewer(m, "pkgG")
	m.store.EXPECT().BrokenReason(gomock.Any(), "pkgG").Return("", nil)
	m.prompt.EXPECT().YesNo(gomock.Any(), "PKGG", gomock.Any(), "Deaktivieren").Return(false, nil)

	if _, err := r.Reconcile(ctx, []*addonrepo.Package{p}); err != nil {
		t.Fatal(err)
	}
}

func TestStoreError(t *testing.T) {
	ctx := test.Logging(t)
	r, m := newReconciler(t)
	storeErr := &addonrepo.Error{Op: "test", Kind: addonrepo.ErrInternal, Message: "boom"}
	m.store.EXPECT().InstalledVersion(gomock.Any(), "pkgE").Return(addonrepo.Version{}, false, storeErr)

	_, err := r.Reconcile(ctx, []*addonrepo.Package{pkg("pkgE", "1.0.0", "")})
	if !errors.Is(err, addonrepo.ErrInternal) {
		t.Errorf("unexpected error: %v", err)
	}
}
