// Package scheduler runs the background jobs of the start page server.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/startpage/internal/defaults"
	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/sources/homepage"
	"github.com/MrSnakeDoc/startpage/internal/sources/seed"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Sources lists the optional files the default catalog is built from.
type Sources struct {
	SeedFile     string
	BookmarkFile string
	ServiceFile  string

	// BlockDomains are excluded from the built-in web engines, together
	// with the seed file's block_domains.
	BlockDomains []string
}

func (s Sources) files() []string {
	var out []string
	for _, f := range []string{s.SeedFile, s.BookmarkFile, s.ServiceFile} {
		if f != "" {
			out = append(out, filepath.Clean(f))
		}
	}
	return out
}

// DefaultsReloader rebuilds the default catalog from the configured files at
// start, when one of them changes on disk, and on manual trigger.
type DefaultsReloader struct {
	sources       Sources
	catalog       *defaults.Catalog
	logger        logger.Logger
	debounce      time.Duration
	manualTrigger <-chan struct{}

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func NewDefaultsReloader(
	sources Sources,
	catalog *defaults.Catalog,
	log logger.Logger,
	debounce time.Duration,
	manualTrigger <-chan struct{},
) *DefaultsReloader {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &DefaultsReloader{
		sources:       sources,
		catalog:       catalog,
		logger:        log,
		debounce:      debounce,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start loads the catalog once, failing if a configured file is unusable,
// then watches the files in the background.
func (r *DefaultsReloader) Start(ctx context.Context) error {
	if err := r.Reload(ctx); err != nil {
		return fmt.Errorf("initial defaults load failed: %w", err)
	}

	watcher, err := r.watch()
	if err != nil {
		return err
	}

	go r.loop(ctx, watcher)
	return nil
}

// Stop ends the background loop and waits for it to exit.
func (r *DefaultsReloader) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.done
}

// watch subscribes to the directories holding the configured files, so
// editors that save through rename are still seen. Returns nil when no file
// is configured.
func (r *DefaultsReloader) watch() (*fsnotify.Watcher, error) {
	files := r.sources.files()
	if len(files) == 0 {
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		r.logger.Debug("watching directory", logger.String("dir", dir))
	}
	return w, nil
}

func (r *DefaultsReloader) loop(ctx context.Context, w *fsnotify.Watcher) {
	defer close(r.done)

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if w != nil {
		defer w.Close()
		events, errs = w.Events, w.Errors
	}

	timer := time.NewTimer(r.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if r.relevant(ev) {
				timer.Reset(r.debounce)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			r.logger.Warn("file watcher error", logger.Error(err))
		case <-timer.C:
			r.logger.Info("defaults file changed, reloading")
			r.reloadLogged(ctx)
		case <-r.manualTrigger:
			r.logger.Info("manual defaults reload triggered")
			r.reloadLogged(ctx)
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *DefaultsReloader) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	for _, f := range r.sources.files() {
		if name == f {
			return true
		}
	}
	return false
}

func (r *DefaultsReloader) reloadLogged(ctx context.Context) {
	if err := r.Reload(ctx); err != nil {
		r.logger.Error("failed to reload defaults, keeping previous catalog", logger.Error(err))
	}
}

// Reload rebuilds the catalog. The seed file replaces the built-in lists it
// defines; Homepage bookmarks and services are appended to the pins. On
// error the catalog is left untouched.
func (r *DefaultsReloader) Reload(_ context.Context) error {
	blocked := r.sources.BlockDomains
	engines := defaults.BuiltinEngines(blocked)
	pins := defaults.BuiltinSites()
	origin := []string{"builtin"}

	if r.sources.SeedFile != "" {
		f, err := seed.NewLoader(r.sources.SeedFile).Load()
		if err != nil {
			return err
		}
		if len(f.BlockDomains) > 0 {
			blocked = append(slices.Clone(blocked), f.BlockDomains...)
			engines = defaults.BuiltinEngines(blocked)
		}
		if list := f.EngineList(); len(list) > 0 {
			engines = list
		}
		if list := f.SiteList(); len(list) > 0 {
			pins = list
		}
		origin = []string{"seed"}
	}

	if r.sources.BookmarkFile != "" {
		cfg, err := homepage.NewBookmarkLoader(r.sources.BookmarkFile).Load()
		if err != nil {
			return err
		}
		sites, err := homepage.BookmarkSites(cfg)
		if err != nil && !errors.Is(err, homepage.ErrNoSites) {
			return err
		}
		pins = mergeSites(pins, sites)
		origin = append(origin, "bookmarks")
	}

	if r.sources.ServiceFile != "" {
		cfg, err := homepage.NewServiceLoader(r.sources.ServiceFile).Load()
		if err != nil {
			return err
		}
		sites, err := homepage.ServiceSites(cfg)
		if err != nil && !errors.Is(err, homepage.ErrNoSites) {
			return err
		}
		pins = mergeSites(pins, sites)
		origin = append(origin, "services")
	}

	source := strings.Join(origin, "+")
	r.catalog.Update(engines, pins, source)

	r.logger.Info("defaults loaded",
		logger.String("source", source),
		logger.Int("engines", len(engines)),
		logger.Int("pins", len(pins)))
	return nil
}

// mergeSites appends extra, skipping urls already present.
func mergeSites(base, extra []domain.PinnedSite) []domain.PinnedSite {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s.URL] = true
	}
	for _, s := range extra {
		if seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		base = append(base, s)
	}
	return base
}
