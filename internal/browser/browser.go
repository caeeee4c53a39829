// Package browser opens addresses in the system web browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/logger"
)

var ErrUnsupportedScheme = errors.New("only http and https addresses can be opened")

// Opener implements search.Navigator by handing the address to the
// platform's URL handler.
type Opener struct {
	goos  string
	start func(cmd *exec.Cmd) error
	log   logger.Logger
}

func New(log logger.Logger) *Opener {
	return &Opener{
		goos:  runtime.GOOS,
		start: (*exec.Cmd).Start,
		log:   log,
	}
}

// Navigate launches the handler and returns without waiting for the browser.
func (o *Opener) Navigate(ctx context.Context, target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", target, err)
	}
	if s := strings.ToLower(u.Scheme); s != "http" && s != "https" {
		return ErrUnsupportedScheme
	}

	name, args, err := command(o.goos, target)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Not bound to ctx: the browser must outlive the caller.
	cmd := exec.Command(name, args...)
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	if cmd.Process != nil {
		go func() { _ = cmd.Wait() }()
	}

	o.log.Debug("opened in browser", logger.String("target", target), logger.String("via", name))
	return nil
}

func command(goos, target string) (string, []string, error) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
