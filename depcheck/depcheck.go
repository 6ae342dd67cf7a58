// Package depcheck decides whether a package's dependencies can be met.
package depcheck

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
)

// Store is the local state the Checker consults.
type Store interface {
	// InstalledVersion reports the locally installed version of a package.
	InstalledVersion(ctx context.Context, id string) (addonrepo.Version, bool, error)
	// ListedPackage reports the newest version of a package across every
	// stored repository listing.
	ListedPackage(ctx context.Context, id string) (*addonrepo.Package, bool, error)
}

// Checker checks dependencies against a Store.
type Checker struct {
	Store Store
	// Provided holds the modules shipped by the host application, such as
	// "xbmc.python", keyed by id. They count as installed.
	Provided map[string]addonrepo.Version
}

// Satisfied reports whether every required dependency of "pkg" is either
// provided by the host, installed at an acceptable version, or listed by a
// repository at an acceptable version with its own dependencies satisfied.
//
// Every requirement on an id is checked against its version, even when the
// id was already reached along another path.
//
// Optional dependencies are not consulted. A dependency cycle is satisfied
// if every package along it is available.
func (c *Checker) Satisfied(ctx context.Context, pkg *addonrepo.Package) (bool, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "depcheck/Checker.Satisfied").
		Str("package", pkg.ID).
		Logger()
	ctx = log.WithContext(ctx)
	seen := map[string]struct{}{pkg.ID: {}}
	return c.satisfied(ctx, pkg, seen)
}

func (c *Checker) satisfied(ctx context.Context, pkg *addonrepo.Package, seen map[string]struct{}) (bool, error) {
	log := zerolog.Ctx(ctx)
	for _, dep := range pkg.Dependencies {
		if dep.Optional {
			continue
		}
		if err := ctx.Err(); err != nil {
			return false, addonrepo.Canceled(ctx, "depcheck/Checker.Satisfied")
		}
		if v, ok := c.Provided[dep.ID]; ok && !v.LessThan(dep.Version) {
			continue
		}
		v, ok, err := c.Store.InstalledVersion(ctx, dep.ID)
		if err != nil {
			return false, fmt.Errorf("depcheck: looking up installed %q: %w", dep.ID, err)
		}
		if ok && !v.LessThan(dep.Version) {
			continue
		}
		listed, ok, err := c.Store.ListedPackage(ctx, dep.ID)
		if err != nil {
			return false, fmt.Errorf("depcheck: looking up listed %q: %w", dep.ID, err)
		}
		if !ok || listed.Version.LessThan(dep.Version) {
			log.Debug().
				Str("dependency", dep.ID).
				Stringer("required", dep.Version).
				Bool("listed", ok).
				Msg("dependency unavailable")
			return false, nil
		}
		// The listed version meets this requirement; only the recursion
		// stops at ids already visited.
		if _, ok := seen[dep.ID]; ok {
			continue
		}
		seen[dep.ID] = struct{}{}
		sat, err := c.satisfied(ctx, listed, seen)
		if err != nil || !sat {
			return sat, err
		}
	}
	return true, nil
}
