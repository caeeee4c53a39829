package app

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ListenPort:      "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Storage:         config.StorageSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "startpage.db"),
		Profile:         "default",
		SuggestTimeout:  time.Second,
		SuggestCacheTTL: time.Minute,
		JanitorInterval: time.Minute,
	}
}

func TestOpenCoreWithBuiltins(t *testing.T) {
	core, err := OpenCore(context.Background(), testConfig(t), logger.Nop())
	require.NoError(t, err)
	defer core.Close()

	assert.Equal(t, config.StorageSQLite, core.StorageKind)
	assert.Nil(t, core.Suggester)
	assert.Equal(t, "disabled", core.SuggestMode)

	active, ok := core.Engines.Active()
	require.True(t, ok)
	assert.Equal(t, "Bing", active.Name)
	assert.NotEmpty(t, core.Pins.List())
}

func TestOpenCoreUsesSeedAndProfiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte(`
engines:
  - name: Kagi
    url: https://kagi.com/search?q=%s
pins:
  - name: Grafana
    url: grafana.lan
`), 0o644))

	ctx := context.Background()
	core, err := OpenCore(ctx, cfg, logger.Nop())
	require.NoError(t, err)

	_, err = core.Pins.Add(ctx, domain.SiteInput{Name: "Wiki", URL: "wiki.lan"})
	require.NoError(t, err)
	assert.Len(t, core.Pins.List(), 2)
	core.Close()

	// same database, same profile: the added pin is still there
	core, err = OpenCore(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	assert.Len(t, core.Pins.List(), 2)
	assert.Equal(t, "Kagi", core.Engines.List()[0].Name)
	core.Close()

	// another profile starts from the defaults
	cfg.Profile = "work"
	core, err = OpenCore(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close()
	require.Len(t, core.Pins.List(), 1)
	assert.Equal(t, "https://grafana.lan", core.Pins.List()[0].URL)
}

func engineNames(list []domain.Engine) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

func TestSeedEditReachesRegistries(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.StorageMemory
	cfg.ReloadDebounce = 10 * time.Millisecond
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte(`
engines:
  - name: Kagi
    url: https://kagi.com/search?q=%s
`), 0o644))

	core, err := OpenCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close()
	require.Equal(t, []string{"Kagi"}, engineNames(core.Engines.List()))

	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte(`
engines:
  - name: Brave
    url: https://search.brave.com/search?q=%s
`), 0o644))
	core.ReloadTrigger <- struct{}{}

	assert.Eventually(t, func() bool {
		return slices.Equal([]string{"Brave"}, engineNames(core.Engines.List()))
	}, 3*time.Second, 10*time.Millisecond)

	active, ok := core.Engines.Active()
	require.True(t, ok)
	assert.Equal(t, "Brave", active.Name)
}

func TestBlockDomainsReachBuiltinEngines(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.StorageMemory
	cfg.BlockDomains = []string{"csdn.net"}

	core, err := OpenCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close()

	active, ok := core.Engines.Active()
	require.True(t, ok)
	assert.Equal(t, "Bing", active.Name)
	assert.Equal(t, "https://www.bing.com/search?q=%s%20-site:csdn.net", active.URL)
}

func TestOpenCoreMemoryWithSuggestions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.StorageMemory
	cfg.SuggestURL = "http://127.0.0.1:1/ac?q=%s"

	core, err := OpenCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer core.Close()

	assert.NotNil(t, core.Suggester)
	assert.Equal(t, "remote+memory-cache", core.SuggestMode)
}

func TestOpenCoreFailsOnBrokenSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte("engines: [oops"), 0o644))

	_, err := OpenCore(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.StorageMemory
	cfg.SuggestURL = "http://127.0.0.1:1/ac?q=%s"

	core, err := OpenCore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	core.Close()
	assert.NotPanics(t, core.Close)
}

func TestNewBuildsServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.StorageMemory

	a, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer a.core.Close()
	assert.NotNil(t, a.server)
}
