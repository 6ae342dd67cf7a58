package reposync

import (
	"slices"
	"strings"
	"sync"

	"github.com/quay/addonrepo"
)

// Registry is the set of configured repositories.
//
// Repositories are copied on the way in and out, so callers never share one
// with a running sync.
type Registry struct {
	mu    sync.RWMutex
	repos map[string]*addonrepo.Repository
}

// NewRegistry returns a Registry holding copies of "repos".
func NewRegistry(repos ...*addonrepo.Repository) *Registry {
	r := &Registry{
		repos: make(map[string]*addonrepo.Repository, len(repos)),
	}
	for _, repo := range repos {
		r.repos[repo.ID] = repo.Clone()
	}
	return r
}

// Register adds "repo", replacing any repository with the same id.
func (r *Registry) Register(repo *addonrepo.Repository) {
	c := repo.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repos[c.ID] = c
}

// Unregister removes the repository "id", reporting whether it was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.repos[id]
	delete(r.repos, id)
	return ok
}

// Get returns a copy of the repository "id".
func (r *Registry) Get(id string) (*addonrepo.Repository, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	repo, ok := r.repos[id]
	if !ok {
		return nil, false
	}
	return repo.Clone(), true
}

// List returns copies of every repository, ordered by id.
func (r *Registry) List() []*addonrepo.Repository {
	r.mu.RLock()
	out := make([]*addonrepo.Repository, 0, len(r.repos))
	for _, repo := range r.repos {
		out = append(out, repo.Clone())
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *addonrepo.Repository) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
