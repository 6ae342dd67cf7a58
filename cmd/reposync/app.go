package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Masterminds/semver"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/broken"
	"github.com/quay/addonrepo/checksum"
	"github.com/quay/addonrepo/datastore"
	"github.com/quay/addonrepo/datastore/postgres"
	"github.com/quay/addonrepo/datastore/sqlite"
	"github.com/quay/addonrepo/depcheck"
	"github.com/quay/addonrepo/manifest"
	"github.com/quay/addonrepo/prompt"
	"github.com/quay/addonrepo/reposync"
	"github.com/quay/addonrepo/resource"
	"github.com/quay/addonrepo/script"
)

// App holds everything the commands share.
type app struct {
	cfg       *Config
	store     datastore.Store
	fetcher   *resource.Fetcher
	checksums *checksum.Fetcher
	registry  *reposync.Registry
	manager   *reposync.Manager
}

func newApp(ctx context.Context, cfg *Config) (*app, error) {
	a := app{cfg: cfg}
	var err error
	switch cfg.Database.Driver {
	case "sqlite":
		a.store, err = sqlite.Open(ctx, cfg.Database.DSN)
	case "postgres":
		a.store, err = postgres.Connect(ctx, cfg.Database.DSN, "reposync", cfg.Database.Migrate)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open store: %w", err)
	}

	var lim *rate.Limiter
	if cfg.Sync.Rate > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.Sync.Rate), cfg.Sync.Burst)
	}
	a.fetcher, err = resource.New(
		resource.WithClient(&http.Client{}),
		resource.WithLimiter(lim),
	)
	if err != nil {
		a.store.Close()
		return nil, err
	}
	a.checksums = &checksum.Fetcher{Loader: a.fetcher}

	var host *semver.Version
	if cfg.Sync.Host != "" {
		host, err = semver.NewVersion(cfg.Sync.Host)
		if err != nil {
			a.store.Close()
			return nil, fmt.Errorf("bad host version %q: %w", cfg.Sync.Host, err)
		}
	}
	repos, err := loadRepositories(ctx, cfg.Repositories, a.fetcher, host)
	if err != nil {
		a.store.Close()
		return nil, err
	}
	a.registry = reposync.NewRegistry(repos...)

	var p broken.Prompter = prompt.Terminal{}
	switch cfg.Prompt.Assume {
	case "yes":
		p = prompt.Always(true)
	case "no":
		p = prompt.Always(false)
	}
	provided, err := cfg.provided()
	if err != nil {
		a.store.Close()
		return nil, err
	}
	lang, err := language.Parse(cfg.Prompt.Language)
	if err != nil {
		lang = language.English
	}
	c := &reposync.Components{
		Store:     a.store,
		Checksums: a.checksums,
		Parser:    &manifest.Parser{Loader: a.fetcher},
		Gate: &script.Invoker{
			Dir:     cfg.Script.Dir,
			Timeout: cfg.Script.Timeout,
		},
		Reconciler: &broken.Reconciler{
			Store:    a.store,
			Deps:     &depcheck.Checker{Store: a.store, Provided: provided},
			Prompt:   p,
			Language: lang,
		},
	}
	a.manager, err = reposync.NewManager(a.registry, c,
		reposync.WithBatchSize(cfg.Sync.Batch),
		reposync.WithInterval(cfg.Sync.Interval),
	)
	if err != nil {
		a.store.Close()
		return nil, err
	}
	return &a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// Repository returns the registered repository "id".
func (a *app) repository(id string) (*addonrepo.Repository, error) {
	r, ok := a.registry.Get(id)
	if !ok {
		return nil, &addonrepo.Error{
			Op:      "cmd/reposync",
			Kind:    addonrepo.ErrInvalid,
			Message: fmt.Sprintf("unknown repository %q", id),
		}
	}
	return r, nil
}
