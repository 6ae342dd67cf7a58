// Package listing merges per-source package lists into one repository
// listing.
package listing

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/gowebpki/jcs"

	"github.com/quay/addonrepo"
)

// Set is a repository listing keyed by package id.
type Set map[string]*addonrepo.Package

// Merge adds the packages "in" to "acc".
//
// A package replaces an existing entry with the same id only if its version
// is strictly greater, so the newest version of every id is kept no matter
// the order packages are merged in. Among equal versions the one with the
// lowest path wins, so sources listing the same version under different
// data directories merge to the same result in any order.
func Merge(acc Set, in []*addonrepo.Package) {
	for _, p := range in {
		if cur, ok := acc[p.ID]; ok && !supersedes(p, cur) {
			continue
		}
		acc[p.ID] = p
	}
}

func supersedes(p, cur *addonrepo.Package) bool {
	switch c := p.Version.Compare(cur.Version); {
	case c > 0:
		return true
	case c < 0:
		return false
	}
	return p.Path < cur.Path
}

// Packages returns the packages in the Set, ordered by id.
func (s Set) Packages() []*addonrepo.Package {
	out := make([]*addonrepo.Package, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *addonrepo.Package) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Encode renders the packages as canonical JSON (RFC 8785).
//
// Packages are sorted by id first, so two listings with the same content
// encode to the same bytes.
func Encode(pkgs []*addonrepo.Package) ([]byte, error) {
	s := make(Set, len(pkgs))
	for _, p := range pkgs {
		s[p.ID] = p
	}
	b, err := json.Marshal(s.Packages())
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      "listing/Encode",
			Kind:    addonrepo.ErrInternal,
			Message: "unable to marshal listing",
			Inner:   err,
		}
	}
	out, err := jcs.Transform(b)
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      "listing/Encode",
			Kind:    addonrepo.ErrInternal,
			Message: "unable to canonicalize listing",
			Inner:   err,
		}
	}
	return out, nil
}

// Decode is the inverse of Encode.
func Decode(b []byte) ([]*addonrepo.Package, error) {
	var out []*addonrepo.Package
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, &addonrepo.Error{
			Op:      "listing/Decode",
			Kind:    addonrepo.ErrParse,
			Message: fmt.Sprintf("malformed listing (%d bytes)", len(b)),
			Inner:   err,
		}
	}
	return out, nil
}
