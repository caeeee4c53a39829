// Package pins keeps the ordered list of pinned website shortcuts.
//
// Sites carry a stable id assigned at creation. Edit and Remove address a
// site by id; EditAt and RemoveAt remain for positional callers and check the
// index against the list as it is at call time.
package pins

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MrSnakeDoc/startpage/internal/collection"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/kv"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

var (
	ErrNotFound        = errors.New("pinned site not found")
	ErrIndexOutOfRange = errors.New("pinned site index out of range")
	ErrInvalidSite     = errors.New("pinned site needs a name and a url")
)

// Defaults supplies the sites used when storage holds none, and replaces a
// list the user never changed.
type Defaults interface {
	Sites() []domain.PinnedSite
}

type Registry struct {
	mu    sync.RWMutex
	store kv.Storage
	log   logger.Logger
	sites []domain.PinnedSite
	base  []domain.PinnedSite // defaults the list was last seeded from
}

// Open reads the pinned sites from store, seeding them from defs on first use.
func Open(ctx context.Context, store kv.Storage, defs Defaults, log logger.Logger) *Registry {
	current := defs.Sites()
	sites := collection.LoadOrSeed(ctx, store, kv.KeyPinnedSites, current, log)
	base := collection.Load[[]domain.PinnedSite](ctx, store, kv.KeyPinDefaults, nil, log)

	patched := false
	for i := range sites {
		if sites[i].ID == "" {
			sites[i].ID = domain.NewID()
			patched = true
		}
	}
	if patched {
		collection.Save(ctx, store, kv.KeyPinnedSites, sites, log)
	}

	if base != nil && slices.Equal(sites, base) && !slices.Equal(base, current) {
		sites = slices.Clone(current)
		collection.Save(ctx, store, kv.KeyPinnedSites, sites, log)
		log.Info("pinned sites follow the new defaults", logger.Int("sites", len(sites)))
	}
	if !slices.Equal(base, current) {
		collection.Save(ctx, store, kv.KeyPinDefaults, current, log)
	}

	log.Debug("pinned site registry opened", logger.Int("sites", len(sites)))

	return &Registry{store: store, log: log, sites: sites, base: slices.Clone(current)}
}

// Sync records next as the current defaults and adopts it when the sites
// still equal the previous defaults. It reports whether the list changed.
func (r *Registry) Sync(ctx context.Context, next []domain.PinnedSite) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Equal(r.base, next) {
		return false
	}

	applied := false
	if slices.Equal(r.sites, r.base) {
		r.sites = slices.Clone(next)
		r.persist(ctx)
		applied = true
	}
	r.base = slices.Clone(next)
	collection.Save(ctx, r.store, kv.KeyPinDefaults, r.base, r.log)
	return applied
}

// List returns the sites in display order.
func (r *Registry) List() []domain.PinnedSite {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PinnedSite, len(r.sites))
	copy(out, r.sites)
	return out
}

// Get returns the site with id.
func (r *Registry) Get(id string) (domain.PinnedSite, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.PinnedSite{}, false
	}
	return r.sites[i], true
}

// Add appends a new site. The url gets a scheme when missing and a blank
// favicon is derived from its origin.
func (r *Registry) Add(ctx context.Context, in domain.SiteInput) (domain.PinnedSite, error) {
	if !in.Valid() {
		return domain.PinnedSite{}, ErrInvalidSite
	}
	site := in.Site(domain.NewID())

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sites = append(r.sites, site)
	r.persist(ctx)
	return site, nil
}

// Edit replaces the site with id, keeping its id and position.
func (r *Registry) Edit(ctx context.Context, id string, in domain.SiteInput) (domain.PinnedSite, error) {
	if !in.Valid() {
		return domain.PinnedSite{}, ErrInvalidSite
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.PinnedSite{}, ErrNotFound
	}
	r.sites[i] = in.Site(id)
	r.persist(ctx)
	return r.sites[i], nil
}

// Remove deletes the site with id.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.removeLocked(ctx, i)
	return nil
}

// EditAt replaces the site at index.
func (r *Registry) EditAt(ctx context.Context, index int, in domain.SiteInput) (domain.PinnedSite, error) {
	if !in.Valid() {
		return domain.PinnedSite{}, ErrInvalidSite
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkIndex(index); err != nil {
		return domain.PinnedSite{}, err
	}
	r.sites[index] = in.Site(r.sites[index].ID)
	r.persist(ctx)
	return r.sites[index], nil
}

// RemoveAt deletes the site at index and returns it.
func (r *Registry) RemoveAt(ctx context.Context, index int) (domain.PinnedSite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkIndex(index); err != nil {
		return domain.PinnedSite{}, err
	}
	removed := r.sites[index]
	r.removeLocked(ctx, index)
	return removed, nil
}

func (r *Registry) removeLocked(ctx context.Context, i int) {
	r.sites = append(r.sites[:i:i], r.sites[i+1:]...)
	r.persist(ctx)
}

func (r *Registry) checkIndex(index int) error {
	if index < 0 || index >= len(r.sites) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(r.sites))
	}
	return nil
}

func (r *Registry) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.sites {
		if r.sites[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) persist(ctx context.Context) {
	collection.Save(ctx, r.store, kv.KeyPinnedSites, r.sites, r.log)
}
