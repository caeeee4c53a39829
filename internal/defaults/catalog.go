package defaults

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// Catalog holds the default engines and pinned sites handed to the
// registries when storage has nothing for them. It can be swapped at runtime
// by the defaults reloader.
type Catalog struct {
	mu         sync.RWMutex
	engines    []domain.Engine
	pins       []domain.PinnedSite
	lastReload time.Time
	source     string
	listeners  []func(engines []domain.Engine, pins []domain.PinnedSite)
}

// NewCatalog creates a catalog seeded with the built-in defaults.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.Update(BuiltinEngines(nil), BuiltinSites(), "builtin")
	return c
}

// OnUpdate registers fn to receive copies of the new lists after every
// Update. fn runs on the updating goroutine.
func (c *Catalog) OnUpdate(fn func(engines []domain.Engine, pins []domain.PinnedSite)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Update replaces both default lists. Entries without an id get one derived
// from the engine name or the site url, so ids survive reloads.
func (c *Catalog) Update(engines []domain.Engine, pins []domain.PinnedSite, source string) {
	e := make([]domain.Engine, len(engines))
	copy(e, engines)
	ids := newIDSet()
	for i := range e {
		if e[i].ID == "" {
			key := strings.ToLower(strings.TrimSpace(e[i].Name))
			if key == "" {
				key = e[i].URL
			}
			e[i].ID = domain.StableID("df", "engine:"+key)
		}
		e[i].ID = ids.unique(e[i].ID)
	}

	p := make([]domain.PinnedSite, len(pins))
	copy(p, pins)
	ids = newIDSet()
	for i := range p {
		if p[i].ID == "" {
			p[i].ID = domain.StableID("df", "site:"+p[i].URL)
		}
		p[i].ID = ids.unique(p[i].ID)
	}

	c.mu.Lock()
	c.engines = e
	c.pins = p
	c.source = source
	c.lastReload = time.Now()
	listeners := append(([]func([]domain.Engine, []domain.PinnedSite))(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(slices.Clone(e), slices.Clone(p))
	}
}

// Engines returns a copy of the default engines.
func (c *Catalog) Engines() []domain.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Engine, len(c.engines))
	copy(out, c.engines)
	return out
}

// Sites returns a copy of the default pinned sites.
func (c *Catalog) Sites() []domain.PinnedSite {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.PinnedSite, len(c.pins))
	copy(out, c.pins)
	return out
}

// Counts returns the number of default engines and pinned sites.
func (c *Catalog) Counts() (engines, pins int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.engines), len(c.pins)
}

// LastReload returns when the catalog was last replaced and where the data
// came from ("builtin", "seed", ...).
func (c *Catalog) LastReload() (time.Time, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastReload, c.source
}

// idSet suffixes repeated ids with -2, -3, ...
type idSet map[string]int

func newIDSet() idSet { return idSet{} }

func (s idSet) unique(id string) string {
	s[id]++
	if n := s[id]; n > 1 {
		return id + "-" + strconv.Itoa(n)
	}
	return id
}
