package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/startpage/internal/browser"
	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/search"
	"github.com/MrSnakeDoc/startpage/internal/tui"
)

// RunTerminal shows the start page in the terminal and opens the committed
// address in the system browser. It returns that address, or "" on quit.
func RunTerminal(ctx context.Context, cfg *config.Config, log logger.Logger) (string, error) {
	core, err := OpenCore(ctx, cfg, log)
	if err != nil {
		return "", err
	}
	defer core.Close()

	nav := browser.New(log)
	ctrl := search.New(core.Engines, core.Suggester, nav, log)
	defer ctrl.Close()

	target, err := tui.Run(tui.AppParams{
		Context:    ctx,
		Engines:    core.Engines,
		Pins:       core.Pins,
		Controller: ctrl,
		Navigator:  nav,
	})
	if err != nil {
		return "", fmt.Errorf("terminal page failed: %w", err)
	}
	return target, nil
}
