package addonrepo

import (
	"encoding/json"
	"errors"
	"testing"
)

type versionTestcase struct {
	Name string
	A, B string
	Want int
}

func (tc versionTestcase) Run(t *testing.T) {
	a, b := VersionOrZero(tc.A), VersionOrZero(tc.B)
	t.Logf("%v <=> %v", a, b)
	if got := a.Compare(b); got != tc.Want {
		t.Errorf("got: %d, want: %d", got, tc.Want)
	}
	if got := b.Compare(a); got != -tc.Want {
		t.Errorf("reversed: got: %d, want: %d", got, -tc.Want)
	}
}

var versiontt = []versionTestcase{
	{Name: "Equal", A: "1.0.0", B: "1.0.0", Want: 0},
	{Name: "Major", A: "1.0.0", B: "2.0.0", Want: -1},
	{Name: "Numeric", A: "1.9.0", B: "1.10.0", Want: -1},
	{Name: "Tilde", A: "1.0.0~beta1", B: "1.0.0", Want: -1},
	{Name: "TildeOrder", A: "1.0.0~alpha", B: "1.0.0~beta", Want: -1},
	{Name: "Epoch", A: "1:0.1.0", B: "9.9.9", Want: 1},
	{Name: "Build", A: "2.0.0+matrix.1", B: "2.0.0", Want: 1},
	{Name: "InvalidIsZero", A: "not a version", B: "0.0.0", Want: 0},
	{Name: "ZeroLess", A: "", B: "0.0.1", Want: -1},
}

func TestVersionCompare(t *testing.T) {
	for _, tc := range versiontt {
		t.Run(tc.Name, tc.Run)
	}
}

func TestParseVersion(t *testing.T) {
	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseVersion("abc")
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("unexpected error: %v", err)
		}
	})
	t.Run("String", func(t *testing.T) {
		v := MustParseVersion("1.2.3~rc1")
		if got, want := v.String(), "1.2.3~rc1"; got != want {
			t.Errorf("got: %q, want: %q", got, want)
		}
		if got, want := (Version{}).String(), "0.0.0"; got != want {
			t.Errorf("got: %q, want: %q", got, want)
		}
	})
	t.Run("Text", func(t *testing.T) {
		in := struct{ V Version }{V: MustParseVersion("3.1.4")}
		b, err := json.Marshal(in)
		if err != nil {
			t.Fatal(err)
		}
		var out struct{ V Version }
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatal(err)
		}
		if out.V.Compare(in.V) != 0 || out.V.String() != "3.1.4" {
			t.Errorf("got: %v, want: %v", out.V, in.V)
		}
	})
}
