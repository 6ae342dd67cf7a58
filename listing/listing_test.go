package listing

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quay/addonrepo"
)

func pkg(id, v string) *addonrepo.Package {
	return &addonrepo.Package{
		ID:      id,
		Name:    id,
		Version: addonrepo.MustParseVersion(v),
	}
}

func ids(pkgs []*addonrepo.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.ID + "@" + p.Version.String()
	}
	return out
}

func TestMerge(t *testing.T) {
	// Two sources listing an overlapping package.
	s := make(Set)
	Merge(s, []*addonrepo.Package{pkg("foo", "1.0.0"), pkg("bar", "2.0.0")})
	Merge(s, []*addonrepo.Package{pkg("foo", "1.2.0"), pkg("baz", "0.1.0")})
	got := ids(s.Packages())
	want := []string{"bar@2.0.0", "baz@0.1.0", "foo@1.2.0"}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
}

func TestMergeOlder(t *testing.T) {
	s := make(Set)
	Merge(s, []*addonrepo.Package{pkg("foo", "1.2.0")})
	Merge(s, []*addonrepo.Package{pkg("foo", "1.0.0"), pkg("foo", "1.2.0~rc1")})
	if got, want := s["foo"].Version.String(), "1.2.0"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}

func TestMergeTie(t *testing.T) {
	a := pkg("foo", "1.0.0")
	a.Path = "http://mirror.example.com/a/foo/foo-1.0.0.zip"
	b := pkg("foo", "1.0.0")
	b.Path = "http://mirror.example.com/b/foo/foo-1.0.0.zip"
	for _, order := range [][]*addonrepo.Package{{a, b}, {b, a}} {
		s := make(Set)
		Merge(s, order[:1])
		Merge(s, order[1:])
		if got, want := s["foo"].Path, a.Path; got != want {
			t.Errorf("got: %q, want: %q", got, want)
		}
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	in := []*addonrepo.Package{
		pkg("a", "1.0.0"), pkg("a", "1.0.1"), pkg("a", "0.9.9"),
		pkg("b", "2.0.0~beta1"), pkg("b", "2.0.0"), pkg("b", "1:0.1.0"),
		pkg("c", "3.0.0"),
		pkg("d", "1.10.0"), pkg("d", "1.9.0"),
	}
	want := []string{"a@1.0.1", "b@1:0.1.0", "c@3.0.0", "d@1.10.0"}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		r.Shuffle(len(in), func(i, j int) { in[i], in[j] = in[j], in[i] })
		// Split into two "sources" at a random point and merge in either
		// order.
		n := r.Intn(len(in))
		x, y := make(Set), make(Set)
		Merge(x, in[:n])
		Merge(x, in[n:])
		Merge(y, in[n:])
		Merge(y, in[:n])
		if got := ids(x.Packages()); !cmp.Equal(got, want) {
			t.Error(cmp.Diff(got, want))
		}
		if got := ids(y.Packages()); !cmp.Equal(got, want) {
			t.Error(cmp.Diff(got, want))
		}
	}
}

func TestEncode(t *testing.T) {
	p := pkg("plugin.a", "1.0.0")
	p.Extension = addonrepo.Plugin{Library: "default.py", Provides: []string{"video"}}
	p.Dependencies = []addonrepo.Dependency{{ID: "xbmc.python", Version: addonrepo.MustParseVersion("2.1.0")}}
	in := []*addonrepo.Package{pkg("z", "1.0"), p, pkg("m", "0.1")}

	b, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("%s", b)
	// Input order doesn't matter.
	rev := []*addonrepo.Package{in[2], in[1], in[0]}
	b2, err := Encode(rev)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, b2) {
		t.Errorf("encodings differ:\n%s\n%s", b, b2)
	}

	got, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	want := []*addonrepo.Package{in[2], in[1], in[0]}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("unexpected packages: %v", got)
	}
	if _, err := Decode([]byte(`{"not":"a list"}`)); !errors.Is(err, addonrepo.ErrParse) {
		t.Errorf("unexpected error: %v", err)
	}
}
