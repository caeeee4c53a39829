// Package engines keeps the ordered list of search engines and the active
// selection, persisted through a kv.Storage.
package engines

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/MrSnakeDoc/startpage/internal/collection"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/kv"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// ErrNotFound is returned when no engine has the requested id.
var ErrNotFound = errors.New("engine not found")

// Defaults supplies the engine list used when storage holds none, and
// replaces a list the user never changed.
type Defaults interface {
	Engines() []domain.Engine
}

// Registry is the in-memory engine list. Every mutation is written through to
// storage immediately.
type Registry struct {
	mu       sync.RWMutex
	store    kv.Storage
	log      logger.Logger
	engines  []domain.Engine
	base     []domain.Engine // defaults the list was last seeded from
	selected *domain.Engine
}

// Open reads the engine list and the active selection from store, seeding
// the list from defs on first use.
func Open(ctx context.Context, store kv.Storage, defs Defaults, log logger.Logger) *Registry {
	current := defs.Engines()
	list := collection.LoadOrSeed(ctx, store, kv.KeyEngines, current, log)
	base := collection.Load[[]domain.Engine](ctx, store, kv.KeyEngineDefaults, nil, log)

	// Records written without an id cannot be selected or edited; give them one.
	patched := false
	for i := range list {
		if list[i].ID == "" {
			list[i].ID = domain.NewID()
			patched = true
		}
	}
	if patched {
		collection.Save(ctx, store, kv.KeyEngines, list, log)
	}

	// The defaults changed while nothing was running.
	if base != nil && slices.Equal(list, base) && !slices.Equal(base, current) {
		list = slices.Clone(current)
		collection.Save(ctx, store, kv.KeyEngines, list, log)
		log.Info("engine list follows the new defaults", logger.Int("engines", len(list)))
	}
	if !slices.Equal(base, current) {
		collection.Save(ctx, store, kv.KeyEngineDefaults, current, log)
	}

	selected := collection.Load[*domain.Engine](ctx, store, kv.KeySelectedEngine, nil, log)

	log.Debug("engine registry opened",
		logger.Int("engines", len(list)),
		logger.Bool("has_selection", selected != nil))

	return &Registry{
		store:    store,
		log:      log,
		engines:  list,
		base:     slices.Clone(current),
		selected: selected,
	}
}

// Sync records next as the current defaults. When the list still equals the
// previous defaults it is replaced by next and Sync reports true; a list the
// user edited is left alone.
func (r *Registry) Sync(ctx context.Context, next []domain.Engine) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Equal(r.base, next) {
		return false
	}

	applied := false
	if slices.Equal(r.engines, r.base) {
		r.engines = slices.Clone(next)
		r.persist(ctx)
		applied = true
	}
	r.base = slices.Clone(next)
	collection.Save(ctx, r.store, kv.KeyEngineDefaults, r.base, r.log)

	r.log.Debug("engine defaults synced",
		logger.Bool("applied", applied),
		logger.Int("engines", len(r.engines)))
	return applied
}

// List returns the engines in display order.
func (r *Registry) List() []domain.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Engine, len(r.engines))
	copy(out, r.engines)
	return out
}

// Get returns the engine with the given id.
func (r *Registry) Get(id string) (domain.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Engine{}, false
	}
	return r.engines[i], true
}

// Active resolves the engine searches go to. A selection whose engine was
// deleted falls back to the first engine; with an empty list the last-known
// selection record is still returned so the search box keeps working.
func (r *Registry) Active() (domain.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.selected != nil {
		if i := r.indexOf(r.selected.ID); i >= 0 {
			return r.engines[i], true
		}
	}
	if len(r.engines) > 0 {
		return r.engines[0], true
	}
	if r.selected != nil {
		return *r.selected, true
	}
	return domain.Engine{}, false
}

// Select makes the engine with id active and persists the full record, so
// the display data survives a later removal of that engine.
func (r *Registry) Select(ctx context.Context, id string) (domain.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Engine{}, ErrNotFound
	}
	e := r.engines[i]
	r.selected = &e
	collection.Save(ctx, r.store, kv.KeySelectedEngine, r.selected, r.log)
	return e, nil
}

// Add appends a blank engine with a fresh id. When the last engine still has
// an empty name nothing is added and that engine is returned with added=false.
func (r *Registry) Add(ctx context.Context) (e domain.Engine, added bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.engines); n > 0 && r.engines[n-1].Name == "" {
		return r.engines[n-1], false
	}

	e = domain.Engine{ID: domain.NewID()}
	r.engines = append(r.engines, e)
	r.persist(ctx)
	return e, true
}

// Update merges patch into the engine with id. It reports false when no such
// engine exists.
func (r *Registry) Update(ctx context.Context, id string, patch domain.EnginePatch) (domain.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Engine{}, false
	}
	r.engines[i] = patch.Apply(r.engines[i])
	r.persist(ctx)

	if r.selected != nil && r.selected.ID == id {
		e := r.engines[i]
		r.selected = &e
		collection.Save(ctx, r.store, kv.KeySelectedEngine, r.selected, r.log)
	}
	return r.engines[i], true
}

// Remove deletes the engine with id. The active selection is left as is and
// resolved by Active.
func (r *Registry) Remove(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.engines = append(r.engines[:i:i], r.engines[i+1:]...)
	r.persist(ctx)
	return true
}

func (r *Registry) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.engines {
		if r.engines[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with r.mu held.
func (r *Registry) persist(ctx context.Context) {
	collection.Save(ctx, r.store, kv.KeyEngines, r.engines, r.log)
}
