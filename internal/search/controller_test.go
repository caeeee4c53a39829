package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

type fixedEngine struct {
	e  domain.Engine
	ok bool
}

func (f fixedEngine) Active() (domain.Engine, bool) { return f.e, f.ok }

var example = fixedEngine{
	e:  domain.Engine{ID: "x", Name: "Example", URL: "https://example.com/search?q=%s"},
	ok: true,
}

type recorder struct {
	mu      sync.Mutex
	targets []string
	err     error
}

func (r *recorder) Navigate(_ context.Context, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
	return r.err
}

func (r *recorder) visited() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.targets...)
}

type suggestFunc func(ctx context.Context, q string) ([]string, error)

func (f suggestFunc) Suggest(ctx context.Context, q string) ([]string, error) { return f(ctx, q) }

// gated blocks each query until the test releases it, ignoring cancellation.
type gated struct {
	mu    sync.Mutex
	gates map[string]chan []string
}

func newGated() *gated { return &gated{gates: map[string]chan []string{}} }

func (g *gated) gate(q string) chan []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[q]
	if !ok {
		ch = make(chan []string)
		g.gates[q] = ch
	}
	return ch
}

func (g *gated) Suggest(_ context.Context, q string) ([]string, error) {
	return <-g.gate(q), nil
}

func echo() Suggester {
	return suggestFunc(func(_ context.Context, q string) ([]string, error) {
		return []string{q + " one", q + " two", q + " three"}, nil
	})
}

func settled(t *testing.T, c *Controller, q string) State {
	t.Helper()
	c.SetQuery(q)
	c.Wait()
	return c.State()
}

func TestStaleResultIsDiscarded(t *testing.T) {
	g := newGated()
	c := New(example, g, nil, logger.Nop())
	defer c.Close()

	accepted := make(chan State, 2)
	c.OnChange(func(s State) { accepted <- s })

	c.SetQuery("a")
	c.SetQuery("ab")

	// "ab" resolves first, "a" afterwards.
	g.gate("ab") <- []string{"ab result"}
	select {
	case s := <-accepted:
		assert.Equal(t, []string{"ab result"}, s.Suggestions)
	case <-time.After(2 * time.Second):
		t.Fatal("newer result was never accepted")
	}

	g.gate("a") <- []string{"a result"}
	c.Wait()

	st := c.State()
	assert.Equal(t, "ab", st.Query)
	assert.Equal(t, []string{"ab result"}, st.Suggestions)
	assert.Len(t, accepted, 0)
}

func TestSupersededFetchIsCancelled(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	s := suggestFunc(func(ctx context.Context, q string) ([]string, error) {
		if q == "slow" {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return []string{"fast"}, nil
	})
	c := New(example, s, nil, logger.Nop())

	c.SetQuery("slow")
	<-started
	c.SetQuery("quick")
	c.Wait()

	select {
	case <-cancelled:
	default:
		t.Fatal("superseded fetch context was not cancelled")
	}
	assert.Equal(t, []string{"fast"}, c.State().Suggestions)
}

func TestBlankQueryClearsWithoutFetching(t *testing.T) {
	calls := 0
	s := suggestFunc(func(_ context.Context, q string) ([]string, error) {
		calls++
		return []string{q}, nil
	})
	c := New(example, s, nil, logger.Nop())

	st := settled(t, c, "go")
	require.True(t, st.PanelVisible())
	require.Equal(t, 1, calls)

	st = settled(t, c, "   ")
	assert.Empty(t, st.Suggestions)
	assert.False(t, st.Visible)
	assert.Equal(t, 1, calls)
}

func TestQueryChangeResetsCursor(t *testing.T) {
	c := New(example, echo(), nil, logger.Nop())
	ctx := context.Background()

	settled(t, c, "go")
	_, _ = c.HandleKey(ctx, KeyArrowDown)
	_, _ = c.HandleKey(ctx, KeyArrowDown)
	require.Equal(t, 1, c.State().Selected)

	c.SetQuery("gop")
	assert.Equal(t, -1, c.State().Selected)
	c.Wait()
}

func TestArrowKeysClampWithoutWrapping(t *testing.T) {
	c := New(example, echo(), nil, logger.Nop())
	ctx := context.Background()
	settled(t, c, "q")

	for range 5 {
		_, _ = c.HandleKey(ctx, KeyArrowDown)
	}
	assert.Equal(t, 2, c.State().Selected)

	for range 5 {
		_, _ = c.HandleKey(ctx, KeyArrowUp)
	}
	assert.Equal(t, -1, c.State().Selected)
}

func TestArrowDownWithNoSuggestions(t *testing.T) {
	c := New(example, nil, nil, logger.Nop())
	c.SetQuery("q")

	_, _ = c.HandleKey(context.Background(), KeyArrowDown)
	assert.Equal(t, -1, c.State().Selected)
}

func TestEnterCommitsSelectedSuggestion(t *testing.T) {
	s := suggestFunc(func(_ context.Context, _ string) ([]string, error) {
		return []string{"cats", "cats near me"}, nil
	})
	nav := &recorder{}
	c := New(example, s, nav, logger.Nop())
	ctx := context.Background()

	settled(t, c, "cats")
	_, _ = c.HandleKey(ctx, KeyArrowDown)
	_, _ = c.HandleKey(ctx, KeyArrowDown)

	target, err := c.HandleKey(ctx, KeyEnter)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search?q=cats%20near%20me", target)
	assert.Equal(t, []string{target}, nav.visited())
	assert.False(t, c.State().Visible)
}

func TestEnterCommitsTrimmedQuery(t *testing.T) {
	nav := &recorder{}
	c := New(example, nil, nav, logger.Nop())
	c.SetQuery("  go & rust ")

	target, err := c.HandleKey(context.Background(), KeyEnter)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search?q=go%20%26%20rust", target)
}

func TestEnterOnBlankQueryIsNoop(t *testing.T) {
	nav := &recorder{}
	c := New(example, nil, nav, logger.Nop())
	c.SetQuery("   ")

	target, err := c.HandleKey(context.Background(), KeyEnter)
	require.NoError(t, err)
	assert.Empty(t, target)
	assert.Empty(t, nav.visited())
}

func TestCommitWithoutEngine(t *testing.T) {
	c := New(fixedEngine{}, nil, &recorder{}, logger.Nop())
	_, err := c.Commit(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestCommitTemplateWithoutPlaceholder(t *testing.T) {
	eng := fixedEngine{e: domain.Engine{URL: "https://news.example/"}, ok: true}
	target, err := New(eng, nil, nil, logger.Nop()).Commit(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "https://news.example/", target)
}

func TestNavigatorErrorIsWrapped(t *testing.T) {
	boom := errors.New("no display")
	c := New(example, nil, &recorder{err: boom}, logger.Nop())

	_, err := c.Commit(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestFetchErrorKeepsPriorState(t *testing.T) {
	fail := false
	s := suggestFunc(func(_ context.Context, q string) ([]string, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return []string{q + "!"}, nil
	})
	c := New(example, s, nil, logger.Nop())

	settled(t, c, "a")
	fail = true
	st := settled(t, c, "ab")

	assert.Equal(t, "ab", st.Query)
	assert.Equal(t, []string{"a!"}, st.Suggestions)
}

func TestEscapeHidesAndFocusRestores(t *testing.T) {
	c := New(example, echo(), nil, logger.Nop())
	ctx := context.Background()
	settled(t, c, "q")

	_, _ = c.HandleKey(ctx, KeyEscape)
	st := c.State()
	assert.False(t, st.PanelVisible())
	assert.Len(t, st.Suggestions, 3)

	c.Focus()
	assert.True(t, c.State().PanelVisible())

	c.ClickOutside()
	assert.False(t, c.State().PanelVisible())
}

func TestFocusWithBlankQueryStaysHidden(t *testing.T) {
	c := New(example, echo(), nil, logger.Nop())
	c.Focus()
	assert.False(t, c.State().Visible)
}

func TestHoverAndClickSuggestion(t *testing.T) {
	nav := &recorder{}
	c := New(example, echo(), nav, logger.Nop())
	ctx := context.Background()
	settled(t, c, "go")

	c.Hover(2)
	assert.Equal(t, 2, c.State().Selected)
	c.Hover(7)
	assert.Equal(t, 2, c.State().Selected)

	target, err := c.ClickSuggestion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search?q=go%20two", target)

	target, err = c.ClickSuggestion(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, target)
	assert.Len(t, nav.visited(), 1)
}

func TestStateIsACopy(t *testing.T) {
	c := New(example, echo(), nil, logger.Nop())
	st := settled(t, c, "q")
	st.Suggestions[0] = "mutated"

	assert.Equal(t, "q one", c.State().Suggestions[0])
}

func TestCloseCancelsInFlight(t *testing.T) {
	s := suggestFunc(func(ctx context.Context, _ string) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c := New(example, s, nil, logger.Nop())
	c.SetQuery("hang")
	c.Close()
	c.Wait()

	assert.Empty(t, c.State().Suggestions)
}
