// Package checksum fetches the checksums used to detect repository changes.
package checksum

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
)

// Loader is the resource loading the Fetcher needs.
//
// [resource.Fetcher] satisfies this interface.
type Loader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Fetcher retrieves checksum documents.
type Fetcher struct {
	Loader Loader
}

// Fetch returns the checksum published at "url" with surrounding whitespace
// removed.
//
// Failures are logged and reported as the empty string.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	log := zerolog.Ctx(ctx).With().
		Str("component", "checksum/Fetcher.Fetch").
		Str("url", url).
		Logger()
	b, err := f.Loader.Fetch(ctx, url)
	if err != nil {
		log.Info().Err(err).Msg("unable to fetch checksum")
		return ""
	}
	return strings.TrimSpace(string(b))
}

// PackageHash returns the published hash of the package archive, or the empty
// string if the repository does not publish hashes for the package's source.
//
// The hash file is "<path>.md5"; only its text up to the first space or
// newline is used, which accepts the output of md5sum.
func (f *Fetcher) PackageHash(ctx context.Context, repo *addonrepo.Repository, pkg *addonrepo.Package) string {
	src, ok := repo.SourceFor(pkg.Path)
	if !ok || !src.Hashes {
		return ""
	}
	log := zerolog.Ctx(ctx).With().
		Str("component", "checksum/Fetcher.PackageHash").
		Str("repository", repo.ID).
		Str("package", pkg.ID).
		Logger()
	b, err := f.Loader.Fetch(ctx, pkg.Path+".md5")
	if err != nil {
		log.Info().Err(err).Msg("unable to fetch package hash")
		return ""
	}
	s := string(b)
	if i := strings.IndexAny(s, " \r\n"); i != -1 {
		s = s[:i]
	}
	return s
}
