// Package script runs the update hook of script-driven repositories.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
)

// DefaultTimeout bounds a hook run when Invoker.Timeout is unset.
const DefaultTimeout = 2 * time.Minute

// Invoker runs repository hooks as child processes.
//
// The hook is the executable "<Dir>/<repository id>/<library>", run in its
// own directory with the arguments:
//
//	<entry point> plugin://<repository id>/?action=update
//
// An exit status of zero accepts the update.
type Invoker struct {
	// Dir is the directory add-ons are installed in.
	Dir     string
	Timeout time.Duration
}

// Update asks the repository's hook whether a new listing may be stored.
func (i *Invoker) Update(ctx context.Context, repo *addonrepo.Repository) (bool, error) {
	const op = `script/Invoker.Update`
	log := zerolog.Ctx(ctx).With().
		Str("component", "script/Invoker.Update").
		Str("repository", repo.ID).
		Logger()
	if !repo.ScriptDriven() {
		return false, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrPrecondition,
			Message: fmt.Sprintf("repository %q has no library", repo.ID),
		}
	}
	to := i.Timeout
	if to <= 0 {
		to = DefaultTimeout
	}
	tctx, done := context.WithTimeout(ctx, to)
	defer done()

	dir := filepath.Join(i.Dir, repo.ID)
	var args []string
	if repo.EntryPoint != "" {
		args = append(args, repo.EntryPoint)
	}
	args = append(args, fmt.Sprintf("plugin://%s/?action=update", repo.ID))
	cmd := exec.CommandContext(tctx, filepath.Join(dir, repo.Library), args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	log = log.With().
		Dur("duration", time.Since(start)).
		Str("output", string(bytes.TrimSpace(out.Bytes()))).
		Logger()
	var exit *exec.ExitError
	switch {
	case err == nil:
		log.Debug().Msg("update accepted")
		return true, nil
	case ctx.Err() != nil:
		return false, addonrepo.Canceled(ctx, op)
	case errors.Is(tctx.Err(), context.DeadlineExceeded):
		log.Warn().Dur("timeout", to).Msg("update hook timed out")
		return false, nil
	case errors.As(err, &exit):
		log.Info().Int("status", exit.ExitCode()).Msg("update refused")
		return false, nil
	default:
		return false, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrPrecondition,
			Message: fmt.Sprintf("unable to run hook for %q", repo.ID),
			Inner:   err,
		}
	}
}
