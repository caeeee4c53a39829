// Package tui is the terminal rendition of the start page: a search box with
// live suggestions, the active engine, and the pinned sites.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/search"
)

// Engines is the part of the engine registry the terminal page needs.
type Engines interface {
	List() []domain.Engine
	Active() (domain.Engine, bool)
	Select(ctx context.Context, id string) (domain.Engine, error)
}

// Pins lists the pinned sites.
type Pins interface {
	List() []domain.PinnedSite
}

type AppParams struct {
	Context    context.Context
	Engines    Engines
	Pins       Pins
	Controller *search.Controller
	Navigator  search.Navigator
}

// stateMsg carries a suggestion list accepted by the controller.
type stateMsg search.State

type App struct {
	ctx       context.Context
	engines   Engines
	pins      Pins
	ctrl      *search.Controller
	nav       search.Navigator
	input     textinput.Model
	state     search.State
	width     int
	status    string
	committed string
}

func NewApp(p AppParams) App {
	ti := textinput.New()
	ti.Placeholder = "Search or type a query"
	ti.Prompt = "› "
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()

	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return App{
		ctx:     ctx,
		engines: p.Engines,
		pins:    p.Pins,
		ctrl:    p.Controller,
		nav:     p.Navigator,
		input:   ti,
		state:   p.Controller.State(),
	}
}

// Committed is the address the last commit navigated to, if any.
func (a App) Committed() string { return a.committed }

// State is the controller state as last seen by the view.
func (a App) State() search.State { return a.state }

func (a App) Init() tea.Cmd {
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		a.state = search.State(msg)
		return a, nil
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.input.Width = max(msg.Width-8, 10)
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "up":
		return a.navigate(search.KeyArrowUp), nil
	case "down":
		return a.navigate(search.KeyArrowDown), nil
	case "esc":
		return a.navigate(search.KeyEscape), nil
	case "enter":
		return a.commit()
	case "tab":
		return a.cycleEngine(1), nil
	case "shift+tab":
		return a.cycleEngine(-1), nil
	}

	if i, ok := pinShortcut(msg); ok {
		return a.openPin(i)
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if v := a.input.Value(); v != before {
		a.ctrl.SetQuery(v)
		a.status = ""
	}
	a.state = a.ctrl.State()
	return a, cmd
}

func (a App) navigate(k search.Key) App {
	_, _ = a.ctrl.HandleKey(a.ctx, k)
	a.state = a.ctrl.State()
	return a
}

func (a App) commit() (tea.Model, tea.Cmd) {
	target, err := a.ctrl.HandleKey(a.ctx, search.KeyEnter)
	a.state = a.ctrl.State()
	if err != nil {
		a.status = err.Error()
		return a, nil
	}
	if target == "" {
		return a, nil
	}
	a.committed = target
	return a, tea.Quit
}

func (a App) cycleEngine(delta int) App {
	list := a.engines.List()
	if len(list) == 0 {
		return a
	}

	cur := 0
	if active, ok := a.engines.Active(); ok {
		for i, e := range list {
			if e.ID == active.ID {
				cur = i
				break
			}
		}
	}
	next := (cur + delta + len(list)) % len(list)

	e, err := a.engines.Select(a.ctx, list[next].ID)
	if err != nil {
		a.status = err.Error()
		return a
	}
	a.status = "engine: " + displayName(e)
	return a
}

func (a App) openPin(i int) (tea.Model, tea.Cmd) {
	sites := a.pins.List()
	if i >= len(sites) {
		return a, nil
	}
	if a.nav != nil {
		if err := a.nav.Navigate(a.ctx, sites[i].URL); err != nil {
			a.status = err.Error()
			return a, nil
		}
	}
	a.committed = sites[i].URL
	return a, tea.Quit
}

// pinShortcut maps alt+1..alt+9 to a pin index.
func pinShortcut(msg tea.KeyMsg) (int, bool) {
	rest, ok := strings.CutPrefix(msg.String(), "alt+")
	if !ok || len(rest) != 1 || rest[0] < '1' || rest[0] > '9' {
		return 0, false
	}
	return int(rest[0] - '1'), true
}

func displayName(e domain.Engine) string {
	if e.Name == "" {
		return "(unnamed)"
	}
	return e.Name
}

// Run shows the terminal page until the user commits or quits, and returns
// the address that was opened, if any.
func Run(p AppParams) (string, error) {
	opts := []tea.ProgramOption{}
	if p.Context != nil {
		opts = append(opts, tea.WithContext(p.Context))
	}

	prog := tea.NewProgram(NewApp(p), opts...)
	p.Controller.OnChange(func(s search.State) { prog.Send(stateMsg(s)) })
	defer p.Controller.OnChange(nil)

	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("terminal page: %w", err)
	}
	return final.(App).Committed(), nil
}
