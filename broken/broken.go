// Package broken reconciles the broken status repositories report for
// packages with the local broken records.
package broken

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quay/addonrepo"
)

// Store is the local package state the Reconciler reads and updates.
type Store interface {
	InstalledVersion(ctx context.Context, id string) (addonrepo.Version, bool, error)
	// ListedVersion reports the highest version of a package across every
	// stored repository listing.
	ListedVersion(ctx context.Context, id string) (addonrepo.Version, bool, error)
	BrokenReason(ctx context.Context, id string) (string, error)
	SetBrokenReason(ctx context.Context, id, reason string) error
	DisablePackage(ctx context.Context, id string) error
}

// DependencyChecker reports whether a package's dependencies can be met.
//
// [depcheck.Checker] satisfies this interface.
type DependencyChecker interface {
	Satisfied(ctx context.Context, pkg *addonrepo.Package) (bool, error)
}

// Prompter asks the user a yes or no question.
//
// [prompt.Terminal] and [prompt.Always] satisfy this interface.
type Prompter interface {
	YesNo(ctx context.Context, title, message, confirm string) (bool, error)
}

// Reconciler decides what to do about packages whose broken status differs
// between a repository listing and the local records.
type Reconciler struct {
	Store  Store
	Deps   DependencyChecker
	Prompt Prompter
	// Language selects the prompt texts. The zero value is English.
	Language language.Tag
}

// Actions records what a Reconcile call did, by package id.
type Actions struct {
	// Skipped packages have a newer version installed or listed elsewhere.
	Skipped []string
	// Disabled packages were newly broken and the user agreed to disable
	// them.
	Disabled []string
	// Declined packages were newly broken and the user kept them.
	Declined []string
	// Unbroken packages had their local broken record cleared.
	Unbroken []string
}

// Reconcile compares each candidate's broken status with the local record.
//
// Candidates with an empty broken reason whose dependencies cannot be met are
// assigned [addonrepo.BrokenDependenciesNotMet]. A candidate that is broken
// but was not before prompts the user and is disabled on confirmation. A
// candidate that is not broken but was before has its local record cleared.
//
// Decisions use only the candidates passed in: a package broken in this
// listing is reported even if another repository lists a working version.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []*addonrepo.Package) (Actions, error) {
	const op = `broken/Reconciler.Reconcile`
	log := zerolog.Ctx(ctx).With().
		Str("component", "broken/Reconciler.Reconcile").
		Logger()
	lang := r.Language
	if lang == language.Und {
		lang = language.English
	}
	printer := message.NewPrinter(lang)
	var act Actions

	for _, pkg := range candidates {
		if err := ctx.Err(); err != nil {
			return act, addonrepo.Canceled(ctx, op)
		}
		log := log.With().Str("package", pkg.ID).Logger()
		newer, err := r.haveNewer(ctx, pkg)
		if err != nil {
			return act, err
		}
		if newer {
			log.Debug().
				Stringer("version", pkg.Version).
				Msg("newer version known, skipping")
			act.Skipped = append(act.Skipped, pkg.ID)
			continue
		}

		if pkg.Broken == "" {
			ok, err := r.Deps.Satisfied(ctx, pkg)
			if err != nil {
				return act, fmt.Errorf("broken: checking dependencies of %q: %w", pkg.ID, err)
			}
			if !ok {
				pkg.Broken = addonrepo.BrokenDependenciesNotMet
			}
		}

		local, err := r.Store.BrokenReason(ctx, pkg.ID)
		if err != nil {
			return act, fmt.Errorf("broken: reading broken record of %q: %w", pkg.ID, err)
		}
		remoteBroken, localBroken := pkg.Broken != "", local != ""
		switch {
		case remoteBroken && !localBroken:
			log.Debug().
				Str("reason", pkg.Broken).
				Msg("package has been marked broken")
			msg, confirm := promptText(printer, pkg.Broken)
			yes, err := r.Prompt.YesNo(ctx, pkg.Title(), msg, confirm)
			if err != nil {
				return act, fmt.Errorf("broken: prompting for %q: %w", pkg.ID, err)
			}
			if !yes {
				act.Declined = append(act.Declined, pkg.ID)
				continue
			}
			if err := r.Store.DisablePackage(ctx, pkg.ID); err != nil {
				return act, fmt.Errorf("broken: disabling %q: %w", pkg.ID, err)
			}
			log.Info().Msg("disabled broken package")
			act.Disabled = append(act.Disabled, pkg.ID)
		case !remoteBroken && localBroken:
			if err := r.Store.SetBrokenReason(ctx, pkg.ID, ""); err != nil {
				return act, fmt.Errorf("broken: clearing broken record of %q: %w", pkg.ID, err)
			}
			log.Debug().Msg("package has been unbroken")
			act.Unbroken = append(act.Unbroken, pkg.ID)
		}
	}
	return act, nil
}

// HaveNewer reports whether a version newer than the candidate is installed
// or listed.
func (r *Reconciler) haveNewer(ctx context.Context, pkg *addonrepo.Package) (bool, error) {
	v, ok, err := r.Store.InstalledVersion(ctx, pkg.ID)
	if err != nil {
		return false, fmt.Errorf("broken: looking up installed %q: %w", pkg.ID, err)
	}
	if ok && v.GreaterThan(pkg.Version) {
		return true, nil
	}
	v, ok, err = r.Store.ListedVersion(ctx, pkg.ID)
	if err != nil {
		return false, fmt.Errorf("broken: looking up listed %q: %w", pkg.ID, err)
	}
	return ok && v.GreaterThan(pkg.Version), nil
}
