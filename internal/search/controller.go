// Package search holds the state behind the search box: the query, the
// suggestion list fetched for it, and the keyboard cursor over that list.
//
// Suggestion fetches run in their own goroutine. Every fetch is tagged with
// the generation of the query that issued it and its result is dropped unless
// that generation is still current when it resolves, so the visible list
// always belongs to the latest query.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// ErrNoEngine is returned by a commit when no engine can be resolved.
var ErrNoEngine = errors.New("no active search engine")

// Suggester returns completion candidates for a query.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// Navigator moves the browsing context to target.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// EngineSource resolves the engine a commit goes to.
type EngineSource interface {
	Active() (domain.Engine, bool)
}

type Key int

const (
	KeyArrowDown Key = iota
	KeyArrowUp
	KeyEnter
	KeyEscape
)

// State is a snapshot of the controller.
type State struct {
	Query       string
	Suggestions []string
	Selected    int
	Visible     bool
}

// PanelVisible reports whether the suggestion panel should be drawn.
func (s State) PanelVisible() bool {
	return s.Visible && len(s.Suggestions) > 0
}

// Target builds the navigation address for text on the active engine.
func Target(engines EngineSource, text string) (string, error) {
	e, ok := engines.Active()
	if !ok {
		return "", ErrNoEngine
	}
	return domain.BuildSearchURL(e.URL, text), nil
}

type Controller struct {
	engines   EngineSource
	suggester Suggester
	nav       Navigator
	log       logger.Logger

	mu       sync.Mutex
	state    State
	gen      uint64
	cancel   context.CancelFunc
	onChange func(State)

	base     context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a controller. suggester may be nil, in which case no
// suggestions are ever shown. nav may be nil when the caller performs the
// navigation itself with the target returned by a commit.
func New(engines EngineSource, suggester Suggester, nav Navigator, log logger.Logger) *Controller {
	base, shutdown := context.WithCancel(context.Background())
	return &Controller{
		engines:   engines,
		suggester: suggester,
		nav:       nav,
		log:       log,
		state:     State{Selected: -1},
		base:      base,
		shutdown:  shutdown,
	}
}

// OnChange registers fn to be called after a fetched suggestion list has been
// accepted. fn runs on the fetch goroutine.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// SetQuery replaces the query, resets the cursor and supersedes any fetch in
// flight. A blank query clears the suggestions and hides the panel.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()

	c.state.Query = q
	c.state.Selected = -1
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if strings.TrimSpace(q) == "" {
		c.state.Suggestions = nil
		c.state.Visible = false
		c.mu.Unlock()
		return
	}
	if c.suggester == nil {
		c.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	go c.fetch(ctx, cancel, gen, q)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, q string) {
	defer c.wg.Done()
	defer cancel()

	res, err := c.suggester.Suggest(ctx, q)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug("discarding stale suggestions", logger.String("query", q))
		return
	}
	c.cancel = nil
	if err != nil {
		c.mu.Unlock()
		c.log.Debug("suggestion fetch failed", logger.String("query", q), logger.Error(err))
		return
	}

	c.state.Suggestions = res
	c.state.Visible = true
	if c.state.Selected >= len(res) {
		c.state.Selected = len(res) - 1
	}
	snap := c.snapshot()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// HandleKey applies a navigation key. On Enter it returns the address that
// was committed, or "" when nothing was.
func (c *Controller) HandleKey(ctx context.Context, k Key) (string, error) {
	c.mu.Lock()
	switch k {
	case KeyArrowDown:
		c.state.Selected = min(c.state.Selected+1, len(c.state.Suggestions)-1)
	case KeyArrowUp:
		c.state.Selected = max(c.state.Selected-1, -1)
	case KeyEscape:
		c.state.Visible = false
	case KeyEnter:
		text := strings.TrimSpace(c.state.Query)
		if i := c.state.Selected; i >= 0 && i < len(c.state.Suggestions) {
			text = c.state.Suggestions[i]
		}
		c.mu.Unlock()
		return c.Commit(ctx, text)
	}
	c.mu.Unlock()
	return "", nil
}

// Focus shows the panel again for a non-blank query.
func (c *Controller) Focus() {
	c.mu.Lock()
	if strings.TrimSpace(c.state.Query) != "" {
		c.state.Visible = true
	}
	c.mu.Unlock()
}

// Hover moves the cursor to suggestion i.
func (c *Controller) Hover(i int) {
	c.mu.Lock()
	if i >= 0 && i < len(c.state.Suggestions) {
		c.state.Selected = i
	}
	c.mu.Unlock()
}

// ClickOutside hides the panel.
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	c.state.Visible = false
	c.mu.Unlock()
}

// ClickSuggestion commits suggestion i.
func (c *Controller) ClickSuggestion(ctx context.Context, i int) (string, error) {
	c.mu.Lock()
	if i < 0 || i >= len(c.state.Suggestions) {
		c.mu.Unlock()
		return "", nil
	}
	text := c.state.Suggestions[i]
	c.mu.Unlock()
	return c.Commit(ctx, text)
}

// Commit navigates to the active engine with text substituted. A blank text
// is a no-op and returns "".
func (c *Controller) Commit(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	target, err := Target(c.engines, text)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.state.Visible = false
	c.mu.Unlock()

	if c.nav != nil {
		if err := c.nav.Navigate(ctx, target); err != nil {
			return target, fmt.Errorf("navigate to %q: %w", target, err)
		}
	}
	c.log.Debug("search committed", logger.String("target", target))
	return target, nil
}

// Wait blocks until every fetch started so far has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels every fetch in flight. Results arriving afterwards are
// still subject to the generation check.
func (c *Controller) Close() {
	c.shutdown()
}

// snapshot must be called with c.mu held.
func (c *Controller) snapshot() State {
	s := c.state
	if s.Suggestions != nil {
		s.Suggestions = append([]string(nil), s.Suggestions...)
	}
	return s
}
