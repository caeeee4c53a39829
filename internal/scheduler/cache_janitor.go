package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// DefaultJanitorInterval is how often expired suggestion entries are pruned.
const DefaultJanitorInterval = 10 * time.Minute

// Pruner drops expired entries and returns how many went away.
type Pruner interface {
	Prune() int
}

// CacheJanitor periodically prunes the process-local suggestion cache.
// Redis expires its own keys and needs no janitor.
type CacheJanitor struct {
	cache    Pruner
	logger   logger.Logger
	interval time.Duration
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewCacheJanitor(cache Pruner, log logger.Logger, interval time.Duration) *CacheJanitor {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &CacheJanitor{
		cache:    cache,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (j *CacheJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Collect()
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (j *CacheJanitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
}

// Collect prunes once.
func (j *CacheJanitor) Collect() int {
	n := j.cache.Prune()
	if n > 0 {
		j.logger.Debug("pruned expired suggestions", logger.Int("entries", n))
	}
	return n
}
