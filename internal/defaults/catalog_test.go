package defaults

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

func TestNewCatalogHasUsableDefaults(t *testing.T) {
	c := NewCatalog()

	engines := c.Engines()
	require.NotEmpty(t, engines)
	for _, e := range engines {
		assert.NotEmpty(t, e.ID, "engine %s has no id", e.Name)
		assert.True(t, strings.Contains(e.URL, domain.QueryPlaceholder), "engine %s has no placeholder", e.Name)
	}

	sites := c.Sites()
	require.Len(t, sites, 2)
	assert.Equal(t, "GitHub", sites[0].Name)

	_, source := c.LastReload()
	assert.Equal(t, "builtin", source)
}

func TestCatalogIDsAreUnique(t *testing.T) {
	c := NewCatalog()
	seen := map[string]bool{}
	for _, e := range c.Engines() {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestCatalogUpdateKeepsExistingIDs(t *testing.T) {
	c := NewCatalog()
	c.Update([]domain.Engine{{ID: "fixed", Name: "A", URL: "https://a/%s"}, {Name: "B"}}, nil, "seed")

	engines := c.Engines()
	require.Len(t, engines, 2)
	assert.Equal(t, "fixed", engines[0].ID)
	assert.NotEmpty(t, engines[1].ID)

	n, p := c.Counts()
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, p)

	_, source := c.LastReload()
	assert.Equal(t, "seed", source)
}

func TestCatalogReturnsSnapshots(t *testing.T) {
	c := NewCatalog()
	engines := c.Engines()
	engines[0].Name = "mutated"

	assert.NotEqual(t, "mutated", c.Engines()[0].Name)
}

func TestCatalogDoesNotAliasInput(t *testing.T) {
	c := NewCatalog()
	in := []domain.Engine{{ID: "x", Name: "X"}}
	c.Update(in, nil, "seed")
	in[0].Name = "changed"

	assert.Equal(t, "X", c.Engines()[0].Name)
}

func TestCatalogConcurrentAccess(t *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Update(BuiltinEngines(nil), BuiltinSites(), "builtin")
		}()
		go func() {
			defer wg.Done()
			_ = c.Engines()
			_ = c.Sites()
		}()
	}
	wg.Wait()

	n, _ := c.Counts()
	assert.Equal(t, len(BuiltinEngines(nil)), n)
}

func TestCatalogIDsAreStableAcrossUpdates(t *testing.T) {
	a := NewCatalog()
	b := NewCatalog()
	assert.Equal(t, a.Engines(), b.Engines())
	assert.Equal(t, a.Sites(), b.Sites())

	// a changed url keeps the engine's id, a changed site url does not
	engines := BuiltinEngines([]string{"csdn.net"})
	a.Update(engines, BuiltinSites(), "builtin")
	assert.Equal(t, b.Engines()[0].ID, a.Engines()[0].ID)
	assert.NotEqual(t, b.Engines()[0].URL, a.Engines()[0].URL)
}

func TestCatalogDeduplicatesIDs(t *testing.T) {
	c := NewCatalog()
	c.Update(
		[]domain.Engine{{Name: "Same"}, {Name: "same"}},
		[]domain.PinnedSite{{Name: "A", URL: "https://a.example"}, {Name: "B", URL: "https://a.example"}},
		"seed")

	engines := c.Engines()
	assert.NotEqual(t, engines[0].ID, engines[1].ID)
	assert.Equal(t, engines[0].ID+"-2", engines[1].ID)

	sites := c.Sites()
	assert.NotEqual(t, sites[0].ID, sites[1].ID)
}

func TestCatalogNotifiesListeners(t *testing.T) {
	c := NewCatalog()

	var got []domain.Engine
	c.OnUpdate(func(engines []domain.Engine, _ []domain.PinnedSite) { got = engines })

	c.Update([]domain.Engine{{Name: "Kagi", URL: "https://kagi.com/search?q=%s"}}, nil, "seed")
	require.Len(t, got, 1)
	assert.Equal(t, "Kagi", got[0].Name)

	got[0].Name = "mutated"
	assert.Equal(t, "Kagi", c.Engines()[0].Name)
}
