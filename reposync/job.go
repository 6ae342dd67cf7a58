package reposync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/broken"
	"github.com/quay/addonrepo/listing"
)

// Store is the persistent state a Job reads and writes.
type Store interface {
	// Checksum returns the stored aggregate checksum for the repository, or
	// the empty string if there is none.
	Checksum(ctx context.Context, repo string) (string, error)
	// SetTimestamp records a sync that found the repository unchanged.
	SetTimestamp(ctx context.Context, repo string, t time.Time) error
	// Persist replaces the repository's checksum and listing in one
	// transaction.
	Persist(ctx context.Context, snap *addonrepo.Snapshot) error
	// InvalidateCachedAsset drops any cached copy of the asset at "path".
	InvalidateCachedAsset(ctx context.Context, path string) error
}

// ChecksumFetcher retrieves source checksums.
//
// [checksum.Fetcher] satisfies this interface.
type ChecksumFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// ManifestParser retrieves the packages of a source.
//
// [manifest.Parser] satisfies this interface.
type ManifestParser interface {
	Parse(ctx context.Context, src addonrepo.Source) ([]*addonrepo.Package, error)
}

// Gate is consulted before storing a new listing for a script-driven
// repository.
//
// [script.Invoker] satisfies this interface.
type Gate interface {
	Update(ctx context.Context, repo *addonrepo.Repository) (bool, error)
}

// Reconciler acts on changes in broken status.
//
// [broken.Reconciler] satisfies this interface.
type Reconciler interface {
	Reconcile(ctx context.Context, candidates []*addonrepo.Package) (broken.Actions, error)
}

// Components are the collaborators of a Job.
//
// Gate is required only for script-driven repositories. A nil Reconciler
// skips reconciliation.
type Components struct {
	Store      Store
	Checksums  ChecksumFetcher
	Parser     ManifestParser
	Gate       Gate
	Reconciler Reconciler
}

// Result describes a successful sync.
type Result struct {
	// Ref identifies the stored listing. It's the zero UUID if nothing was
	// stored.
	Ref      uuid.UUID
	Checksum string
	// Unchanged is set if the checksum matched and only the timestamp was
	// updated.
	Unchanged bool
	// Refused is set if the repository's gate declined the update.
	Refused  bool
	Packages int
	Actions  broken.Actions
}

// Job syncs one repository once.
//
// A Job must not be reused; create a new one for every sync.
type Job struct {
	repo  *addonrepo.Repository
	c     *Components
	state atomic.Int32

	mu       sync.Mutex
	cancel   context.CancelFunc
	canceled bool
}

// NewJob returns a Job syncing a copy of "repo".
func NewJob(repo *addonrepo.Repository, c *Components) *Job {
	return &Job{
		repo: repo.Clone(),
		c:    c,
	}
}

// State reports the Job's current state.
func (j *Job) State() State {
	return State(j.state.Load())
}

func (j *Job) setState(s State) {
	j.state.Store(int32(s))
}

// Cancel stops the Job at its next cancellation point. It may be called
// before, during, or after Run.
func (j *Job) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.canceled = true
	if j.cancel != nil {
		j.cancel()
	}
}

// Run performs the sync.
//
// Every failure before the new listing is stored leaves the stored state
// untouched. Failures invalidating cached art or reconciling broken status
// are logged and do not fail the sync.
func (j *Job) Run(ctx context.Context) (res Result, err error) {
	const op = `reposync/Job.Run`
	id := j.repo.ID
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	j.mu.Lock()
	j.cancel = cancel
	if j.canceled {
		cancel()
	}
	j.mu.Unlock()

	ctx, span := tracer.Start(ctx, "Job.Run", trace.WithAttributes(
		attribute.String("repository", id),
		attribute.Int("sources", len(j.repo.Sources)),
	))
	defer span.End()
	log := zerolog.Ctx(ctx).With().
		Str("component", "reposync/Job.Run").
		Str("repository", id).
		Logger()
	ctx = log.WithContext(ctx)

	start := time.Now()
	defer func() {
		result := "success"
		switch {
		case errors.Is(err, addonrepo.ErrCanceled):
			result = "canceled"
			j.setState(Cancelled)
			log.Debug().Err(err).Msg("sync canceled")
		case err != nil:
			result = "failure"
			j.setState(Failed)
			span.SetStatus(codes.Error, "sync failed")
			span.RecordError(err)
			log.Error().Err(err).Msg("sync failed")
		default:
			j.setState(Done)
			switch {
			case res.Unchanged:
				result = "unchanged"
			case res.Refused:
				result = "refused"
			default:
				packagesGauge.WithLabelValues(id).Set(float64(res.Packages))
			}
		}
		jobCounter.WithLabelValues(id, result).Inc()
		jobDuration.WithLabelValues(id, result).Observe(time.Since(start).Seconds())
	}()

	if j.repo.ScriptDriven() && j.c.Gate == nil {
		return res, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrPrecondition,
			Message: fmt.Sprintf("repository %q needs a gate", id),
		}
	}

	j.setState(ComputingChecksum)
	prev, err := j.c.Store.Checksum(ctx, id)
	if err != nil {
		return res, fmt.Errorf("reposync: reading checksum: %w", err)
	}
	var b strings.Builder
	for _, src := range j.repo.Sources {
		if err := ctx.Err(); err != nil {
			return res, addonrepo.Canceled(ctx, op)
		}
		if src.Checksum == "" {
			continue
		}
		sum := j.c.Checksums.Fetch(ctx, src.Checksum)
		if sum == "" {
			if err := ctx.Err(); err != nil {
				return res, addonrepo.Canceled(ctx, op)
			}
			return res, &addonrepo.Error{
				Op:      op,
				Kind:    addonrepo.ErrNetwork,
				Message: fmt.Sprintf("failed to fetch checksum %q for source %q", src.Checksum, src.Info),
			}
		}
		b.WriteString(sum)
	}
	sum := b.String()
	res.Checksum = sum

	if prev != "" && prev == sum {
		j.setState(Unchanged)
		log.Debug().Msg("checksum not changed")
		if err := j.c.Store.SetTimestamp(ctx, id, time.Now()); err != nil {
			return res, fmt.Errorf("reposync: setting timestamp: %w", err)
		}
		res.Unchanged = true
		return res, nil
	}

	j.setState(Fetching)
	lists := make([][]*addonrepo.Package, 0, len(j.repo.Sources))
	for _, src := range j.repo.Sources {
		if err := ctx.Err(); err != nil {
			return res, addonrepo.Canceled(ctx, op)
		}
		pkgs, err := j.c.Parser.Parse(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return res, addonrepo.Canceled(ctx, op)
			}
			log.Warn().
				Str("url", src.Info).
				Err(err).
				Msg("failed to read directory listing")
			return res, fmt.Errorf("reposync: source %q: %w", src.Info, err)
		}
		lists = append(lists, pkgs)
	}

	j.setState(Merging)
	set := make(listing.Set)
	for _, l := range lists {
		listing.Merge(set, l)
	}
	pkgs := set.Packages()
	res.Packages = len(pkgs)

	if j.repo.ScriptDriven() {
		ok, err := j.c.Gate.Update(ctx, j.repo)
		switch {
		case errors.Is(err, addonrepo.ErrCanceled):
			return res, err
		case err != nil:
			log.Warn().Err(err).Msg("gate failed")
			ok = false
		}
		if !ok {
			log.Info().Msg("update refused, not storing listing")
			res.Refused = true
			return res, nil
		}
	}

	j.setState(Persisting)
	if err := ctx.Err(); err != nil {
		return res, addonrepo.Canceled(ctx, op)
	}
	snap := addonrepo.Snapshot{
		Repository: id,
		Ref:        uuid.New(),
		Checksum:   sum,
		LastSync:   time.Now(),
		Packages:   pkgs,
	}
	if err := j.c.Store.Persist(ctx, &snap); err != nil {
		return res, fmt.Errorf("reposync: storing listing: %w", err)
	}
	res.Ref = snap.Ref
	log.Info().
		Stringer("ref", snap.Ref).
		Int("packages", len(pkgs)).
		Msg("repository updated")

	j.invalidateArt(ctx, pkgs)

	j.setState(Reconciling)
	if j.c.Reconciler != nil {
		act, err := j.c.Reconciler.Reconcile(ctx, pkgs)
		if err != nil {
			log.Warn().Err(err).Msg("failed to reconcile broken status")
		}
		res.Actions = act
	}
	return res, nil
}

func (j *Job) invalidateArt(ctx context.Context, pkgs []*addonrepo.Package) {
	log := zerolog.Ctx(ctx)
	for _, p := range pkgs {
		for _, a := range [...]string{p.Fanart, p.Icon} {
			if a == "" {
				continue
			}
			if err := j.c.Store.InvalidateCachedAsset(ctx, a); err != nil {
				log.Warn().
					Err(err).
					Str("asset", a).
					Msg("failed to invalidate cached asset")
			}
		}
	}
}
