package manifest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/resource"
)

// Loader is the resource loading the Parser needs.
//
// [resource.Fetcher] satisfies this interface.
type Loader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Parser fetches and parses the manifests of repository sources.
type Parser struct {
	Loader Loader
}

// Parse fetches the manifest of "src" and returns its packages, with package
// and asset locations rewritten against the source's data directory.
//
// Packages are returned in manifest order. Duplicate ids are not removed.
func (p *Parser) Parse(ctx context.Context, src addonrepo.Source) ([]*addonrepo.Package, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "manifest/Parser.Parse").
		Str("url", src.Info).
		Logger()
	u := src.Info
	if src.Compressed {
		u = resource.AddOption(u, "Encoding", "gzip")
	}
	b, err := p.Loader.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("manifest: fetching %q: %w", src.Info, err)
	}
	root, err := ParseDocument(b)
	if err != nil {
		return nil, fmt.Errorf("manifest: parsing %q: %w", src.Info, err)
	}
	pkgs := Packages(ctx, root)
	for _, pkg := range pkgs {
		Rewrite(src, pkg)
	}
	log.Debug().
		Int("count", len(pkgs)).
		Bool("zipped", src.Zipped).
		Msg("parsed manifest")
	return pkgs, nil
}

// Rewrite sets the package location and its non-empty asset locations for
// a package served from "src".
//
// In the packaged layout every version is an archive in the package's
// directory:
//
//	<datadir>/<id>/<id>-<version>.zip
//	<datadir>/changelog-<id>-<version>.txt
//
// Otherwise the package's directory is served unpacked.
func Rewrite(src addonrepo.Source, pkg *addonrepo.Package) {
	dir := pkg.ID + "/"
	if src.Zipped {
		v := pkg.Version.String()
		pkg.Path = join(src.Datadir, fmt.Sprintf("%s%s-%s.zip", dir, pkg.ID, v))
		setIfNotEmpty(&pkg.Icon, join(src.Datadir, dir+DefaultIcon))
		setIfNotEmpty(&pkg.Changelog, join(src.Datadir, fmt.Sprintf("changelog-%s-%s.txt", pkg.ID, v)))
		setIfNotEmpty(&pkg.Fanart, join(src.Datadir, dir+DefaultFanart))
		return
	}
	pkg.Path = join(src.Datadir, dir)
	setIfNotEmpty(&pkg.Icon, join(src.Datadir, dir+DefaultIcon))
	setIfNotEmpty(&pkg.Changelog, join(src.Datadir, dir+DefaultChangelog))
	setIfNotEmpty(&pkg.Fanart, join(src.Datadir, dir+DefaultFanart))
}

func setIfNotEmpty(dst *string, v string) {
	if *dst != "" {
		*dst = v
	}
}

func join(dir, file string) string {
	if dir == "" {
		return file
	}
	if dir[len(dir)-1] != '/' {
		dir += "/"
	}
	return dir + file
}
