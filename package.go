package addonrepo

import (
	"encoding/json"
)

// BrokenDependenciesNotMet is the broken reason assigned to a package whose
// dependencies cannot be satisfied.
const BrokenDependenciesNotMet = "DEPENDENCIES_NOT_MET"

// Package describes one add-on as listed by a repository.
//
// Packages are created by manifest parsing, which also rewrites the asset
// paths. The only other mutation is the assignment of a broken reason during
// reconciliation.
type Package struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Version   Version `json:"version"`
	Provider  string  `json:"provider,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Path      string  `json:"path,omitempty"`
	Icon      string  `json:"icon,omitempty"`
	Changelog string  `json:"changelog,omitempty"`
	Fanart    string  `json:"fanart,omitempty"`
	// Broken is the reason the repository gave for marking this package
	// unusable. An empty string means the package is not broken.
	Broken       string       `json:"broken,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Extension    Extension    `json:"-"`
}

// Dependency is a package required by another package.
type Dependency struct {
	ID       string  `json:"id"`
	Version  Version `json:"version"`
	Optional bool    `json:"optional,omitempty"`
}

// Title returns a human-facing name for the package.
func (p *Package) Title() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Kind reports the package's extension point, or the empty string if it
// has none.
func (p *Package) Kind() string {
	if p.Extension == nil {
		return ""
	}
	return p.Extension.Point()
}

// MarshalJSON implements json.Marshaler.
func (p *Package) MarshalJSON() ([]byte, error) {
	type pkg Package
	return json.Marshal(struct {
		*pkg
		Extension *extensionJSON `json:"extension,omitempty"`
	}{
		pkg:       (*pkg)(p),
		Extension: toExtensionJSON(p.Extension),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Package) UnmarshalJSON(b []byte) error {
	type pkg Package
	v := struct {
		*pkg
		Extension *extensionJSON `json:"extension,omitempty"`
	}{
		pkg: (*pkg)(p),
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Extension = v.Extension.extension()
	return nil
}
