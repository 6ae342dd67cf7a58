package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Masterminds/semver"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/manifest"
)

// RepoFile is the repository definitions file.
//
// Each entry either names a repository add-on descriptor to load with
// "descriptor", or defines the repository inline:
//
//	repositories:
//	  - descriptor: https://mirror.example.com/repository.official/addon.xml
//	  - id: repository.local
//	    name: Local packages
//	    sources:
//	      - info: file:///srv/addons/addons.xml
//	        checksum: file:///srv/addons/addons.xml.md5
//	        datadir: file:///srv/addons/
//	        zip: true
type repoFile struct {
	Repositories []repoEntry `yaml:"repositories"`
}

type repoEntry struct {
	Descriptor string             `yaml:"descriptor"`
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Version    string             `yaml:"version"`
	Sources    []addonrepo.Source `yaml:"sources"`
	Library    string             `yaml:"library"`
	EntryPoint string             `yaml:"entry"`
}

// LoadRepositories reads the definitions file at "path", fetching any named
// descriptors with "l".
//
// A descriptor that can't be loaded is logged and skipped, so one bad mirror
// doesn't stop the others from syncing.
func loadRepositories(ctx context.Context, path string, l manifest.Loader, host *semver.Version) ([]*addonrepo.Repository, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "cmd/reposync/loadRepositories").
		Str("file", path).
		Logger()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read repositories: %w", err)
	}
	var f repoFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("unable to parse repositories: %w", err)
	}

	var out []*addonrepo.Repository
	for i, e := range f.Repositories {
		if e.Descriptor != "" {
			r, err := manifest.LoadRepository(ctx, l, e.Descriptor, host)
			if err != nil {
				log.Warn().
					Err(err).
					Str("url", e.Descriptor).
					Msg("skipping repository")
				continue
			}
			out = append(out, r)
			continue
		}
		if e.ID == "" {
			return nil, fmt.Errorf("repository %d: missing id", i)
		}
		if len(e.Sources) == 0 {
			return nil, fmt.Errorf("repository %q: no sources", e.ID)
		}
		for j, s := range e.Sources {
			if s.Info == "" {
				return nil, fmt.Errorf("repository %q: source %d: missing info", e.ID, j)
			}
		}
		out = append(out, &addonrepo.Repository{
			ID:         e.ID,
			Name:       e.Name,
			Version:    addonrepo.VersionOrZero(e.Version),
			Sources:    e.Sources,
			Library:    e.Library,
			EntryPoint: e.EntryPoint,
		})
	}
	log.Debug().Int("count", len(out)).Msg("loaded repositories")
	return out, nil
}
