package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	suggestStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Bold(true).Foreground(lipgloss.Color("205"))
	pinKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	frameStyle    = lipgloss.NewStyle().Padding(1, 2)
)

func (a App) View() string {
	var b strings.Builder

	engine := "no engine"
	if e, ok := a.engines.Active(); ok {
		engine = displayName(e)
	}
	b.WriteString(headerStyle.Render("Search with " + engine))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n")

	if a.state.PanelVisible() {
		for i, s := range a.state.Suggestions {
			if i == a.state.Selected {
				b.WriteString(selectedStyle.Render("▸ " + s))
			} else {
				b.WriteString(suggestStyle.Render("  " + s))
			}
			b.WriteString("\n")
		}
	}

	if sites := a.pins.List(); len(sites) > 0 {
		b.WriteString("\n")
		parts := make([]string, 0, min(len(sites), 9))
		for i, s := range sites {
			if i == 9 {
				break
			}
			parts = append(parts, pinKeyStyle.Render(fmt.Sprintf("alt+%d", i+1))+" "+s.Name)
		}
		b.WriteString(strings.Join(parts, "   "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab engine • ↑/↓ select • enter search • esc hide • ctrl+c quit"))
	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(a.status))
	}

	return frameStyle.Render(b.String())
}
