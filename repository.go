package addonrepo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source is one manifest directory within a Repository.
//
// A repository may have several sources, usually to serve different
// generations of the host application from one repository add-on.
type Source struct {
	// MinVersion is the lowest host API version this source is meant for.
	MinVersion string `json:"minversion,omitempty" yaml:"minversion"`
	// Checksum is the URL of the manifest's checksum. It may be empty, in
	// which case the source never contributes to change detection.
	Checksum string `json:"checksum,omitempty" yaml:"checksum"`
	// Info is the URL of the manifest.
	Info string `json:"info" yaml:"info"`
	// Datadir is the base URL package paths are rewritten against.
	Datadir string `json:"datadir" yaml:"datadir"`
	// Compressed reports the manifest should be requested gzip-encoded.
	Compressed bool `json:"compressed,omitempty" yaml:"compressed"`
	// Zipped reports the packaged layout: every package version is a zip
	// archive under its own directory.
	Zipped bool `json:"zipped,omitempty" yaml:"zip"`
	// Hashes reports every package archive has an adjacent ".md5" file.
	Hashes bool `json:"hashes,omitempty" yaml:"hashes"`
}

// Repository is a configured package repository.
type Repository struct {
	ID      string
	Name    string
	Version Version
	Sources []Source
	// Library and EntryPoint are set for script-driven repositories, which
	// must accept an update before a new listing is stored.
	Library    string
	EntryPoint string
}

// Clone returns a deep copy of the Repository.
func (r *Repository) Clone() *Repository {
	if r == nil {
		return nil
	}
	c := *r
	c.Sources = append([]Source(nil), r.Sources...)
	return &c
}

// ScriptDriven reports whether the repository uses a script gate.
func (r *Repository) ScriptDriven() bool {
	return r.Library != ""
}

// SourceFor returns the Source whose data directory contains "path".
func (r *Repository) SourceFor(path string) (Source, bool) {
	for _, s := range r.Sources {
		if s.Datadir == "" {
			continue
		}
		dir := s.Datadir
		if !strings.HasSuffix(dir, "/") {
			dir += "/"
		}
		if strings.HasPrefix(path, dir) {
			return s, true
		}
	}
	return Source{}, false
}

// Snapshot is the persisted result of the last successful sync of a
// Repository.
type Snapshot struct {
	Repository string
	// Ref identifies the sync pass that wrote the listing.
	Ref      uuid.UUID
	Checksum string
	LastSync time.Time
	Packages []*Package
}
