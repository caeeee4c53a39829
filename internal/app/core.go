package app

import (
	"context"
	"fmt"
	"io"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/defaults"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/engines"
	"github.com/MrSnakeDoc/startpage/internal/kv"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/pins"
	"github.com/MrSnakeDoc/startpage/internal/redis"
	"github.com/MrSnakeDoc/startpage/internal/scheduler"
	"github.com/MrSnakeDoc/startpage/internal/search"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
	"github.com/MrSnakeDoc/startpage/internal/store/sqlite"
	"github.com/MrSnakeDoc/startpage/internal/suggest"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// Core is what both front ends share: the storage backend, the defaults
// catalog with its reloader, both registries and the suggestion provider.
type Core struct {
	Storage     kv.Storage
	StorageKind string
	Catalog     *defaults.Catalog
	Engines     *engines.Registry
	Pins        *pins.Registry
	Suggester   search.Suggester // nil when suggestions are disabled
	SuggestMode string

	ReloadTrigger chan struct{}

	logger   logger.Logger
	reloader *scheduler.DefaultsReloader
	janitor  *scheduler.CacheJanitor
	closers  []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

// OpenCore connects the configured backends and loads both registries. On
// error everything opened so far is closed again.
func OpenCore(ctx context.Context, cfg *config.Config, log logger.Logger) (_ *Core, err error) {
	c := &Core{
		Catalog:       defaults.NewCatalog(),
		ReloadTrigger: make(chan struct{}, 1),
		logger:        log,
	}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.reloader = scheduler.NewDefaultsReloader(scheduler.Sources{
		SeedFile:     cfg.SeedFile,
		BookmarkFile: cfg.BookmarkFile,
		ServiceFile:  cfg.ServiceFile,
		BlockDomains: cfg.BlockDomains,
	}, c.Catalog, log, cfg.ReloadDebounce, c.ReloadTrigger)
	// The watcher outlives ctx and is ended by Close.
	if err := c.reloader.Start(context.WithoutCancel(ctx)); err != nil {
		c.reloader = nil
		return nil, fmt.Errorf("failed to start defaults reloader: %w", err)
	}

	var rstore *redisstore.Store
	if cfg.UsesRedis() {
		client, err := connectRedis(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		rstore = redisstore.NewStore(client)
		c.closers = append(c.closers, namedCloser{"redis", rstore})
	}

	backend, err := c.openBackend(ctx, cfg, rstore, log)
	if err != nil {
		return nil, err
	}
	c.Storage = kv.Namespace(backend, cfg.Profile)
	c.StorageKind = cfg.Storage

	c.Engines = engines.Open(ctx, c.Storage, c.Catalog, log)
	c.Pins = pins.Open(ctx, c.Storage, c.Catalog, log)

	// Reloaded defaults reach lists the user has not edited. The catalog may
	// have changed between Open and registration, so sync once by hand.
	syncCtx := context.WithoutCancel(ctx)
	c.Catalog.OnUpdate(func(e []domain.Engine, p []domain.PinnedSite) {
		c.Engines.Sync(syncCtx, e)
		c.Pins.Sync(syncCtx, p)
	})
	c.Engines.Sync(syncCtx, c.Catalog.Engines())
	c.Pins.Sync(syncCtx, c.Catalog.Sites())

	c.setupSuggestions(ctx, cfg, rstore, log)

	log.Info("start page core ready",
		logger.String("storage", c.StorageKind),
		logger.String("profile", cfg.Profile),
		logger.String("suggest", c.SuggestMode))
	return c, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, log logger.Logger) (*goredis.Client, error) {
	client, err := redis.Connect(ctx, redis.Options{
		Addr:           cfg.RedisAddr,
		Username:       cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *Core) openBackend(ctx context.Context, cfg *config.Config, rstore *redisstore.Store, log logger.Logger) (kv.Storage, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		return rstore, nil
	case config.StorageMemory:
		log.Warn("using in-memory storage, changes are lost on exit")
		return kv.NewMemory(), nil
	default:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, namedCloser{"sqlite", s})
		return s, nil
	}
}

// setupSuggestions wires the remote provider behind a cache: Redis when a
// connection exists, otherwise an in-process map pruned by a janitor.
func (c *Core) setupSuggestions(ctx context.Context, cfg *config.Config, rstore *redisstore.Store, log logger.Logger) {
	if cfg.SuggestURL == "" {
		c.SuggestMode = "disabled"
		return
	}

	remote := suggest.NewHTTP(cfg.SuggestURL, cfg.SuggestTimeout, log)
	if rstore != nil {
		c.Suggester = suggest.NewCached(remote, rstore, cfg.SuggestCacheTTL, log)
		c.SuggestMode = "remote+redis-cache"
		return
	}

	mem := suggest.NewMemoryCache()
	c.janitor = scheduler.NewCacheJanitor(mem, log, cfg.JanitorInterval)
	c.janitor.Start(context.WithoutCancel(ctx))
	c.Suggester = suggest.NewCached(remote, mem, cfg.SuggestCacheTTL, log)
	c.SuggestMode = "remote+memory-cache"
}

// Close stops the background jobs and releases the backends.
func (c *Core) Close() {
	if c.reloader != nil {
		c.reloader.Stop()
	}
	if c.janitor != nil {
		c.janitor.Stop()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		utils.MustClose(c.closers[i].c, c.closers[i].name, c.logger)
	}
	c.closers = nil
}
