// Package reposync keeps stored repository listings in step with the
// repositories' published manifests.
//
// A Job performs one sync of one repository. A Manager runs Jobs for every
// repository in a Registry, at most one at a time per repository.
package reposync

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/quay/addonrepo"
)

// DefaultInterval is how often Start syncs when not configured otherwise.
const DefaultInterval = 24 * time.Hour

// DefaultBatchSize is the default number of concurrent syncs in Run.
var DefaultBatchSize = runtime.GOMAXPROCS(0)

// Manager oversees syncing the repositories in a Registry.
//
// The Manager may be used in a one-shot fashion, configured to run background
// syncs, or both.
type Manager struct {
	reg       *Registry
	c         *Components
	locks     *Locker
	batchSize int
	interval  time.Duration
}

// NewManager returns a Manager ready to have its Sync, Run, or Start methods
// called.
func NewManager(reg *Registry, c *Components, opts ...Option) (*Manager, error) {
	if reg == nil || c == nil {
		return nil, errors.New("reposync: registry and components are required")
	}
	m := &Manager{
		reg:       reg,
		c:         c,
		batchSize: DefaultBatchSize,
		interval:  DefaultInterval,
	}
	for _, o := range opts {
		if err := o(m); err != nil {
			return nil, err
		}
	}
	if m.locks == nil {
		m.locks = NewLocker()
	}
	return m, nil
}

// Sync syncs the repository "id", waiting for any sync of it already in
// progress.
func (m *Manager) Sync(ctx context.Context, id string) (Result, error) {
	const op = `reposync/Manager.Sync`
	repo, ok := m.reg.Get(id)
	if !ok {
		return Result{}, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrInvalid,
			Message: fmt.Sprintf("unknown repository %q", id),
		}
	}
	unlock, err := m.locks.Lock(ctx, id)
	if err != nil {
		return Result{}, addonrepo.Canceled(ctx, op)
	}
	defer unlock()
	return NewJob(repo, m.c).Run(ctx)
}

// Start syncs every repository, then again every interval until the Context
// is canceled.
//
// Start is designed to be run as a goroutine. Errors from individual runs are
// logged.
func (m *Manager) Start(ctx context.Context) error {
	log := zerolog.Ctx(ctx).With().
		Str("component", "reposync/Manager.Start").
		Logger()
	ctx = log.WithContext(ctx)

	log.Info().Msg("starting initial sync")
	if err := m.Run(ctx); err != nil {
		log.Error().Err(err).Msg("errors while syncing")
	}

	log.Info().Stringer("interval", m.interval).Msg("starting background sync")
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := m.Run(ctx); err != nil {
				log.Error().Err(err).Msg("errors while syncing")
			}
		}
	}
}

// Run syncs every registered repository, at most the batch size at once.
// Repositories with a sync already in progress are skipped.
//
// The returned error joins the errors of every failed sync.
func (m *Manager) Run(ctx context.Context) error {
	log := zerolog.Ctx(ctx).With().
		Str("component", "reposync/Manager.Run").
		Logger()
	ctx = log.WithContext(ctx)
	repos := m.reg.List()
	log.Info().
		Int("total", len(repos)).
		Int("batch_size", m.batchSize).
		Msg("syncing repositories")

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	sem := semaphore.NewWeighted(int64(m.batchSize))
	for _, repo := range repos {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Debug().Err(err).Msg("ending run early")
			mu.Lock()
			errs = append(errs, addonrepo.Canceled(ctx, "reposync/Manager.Run"))
			mu.Unlock()
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			unlock, ok := m.locks.TryLock(repo.ID)
			if !ok {
				log.Debug().
					Str("repository", repo.ID).
					Msg("sync already in progress, skipping")
				return nil
			}
			defer unlock()
			if _, err := NewJob(repo, m.c).Run(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", repo.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}
