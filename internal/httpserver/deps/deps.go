package deps

import (
	"time"

	"github.com/MrSnakeDoc/startpage/internal/defaults"
	"github.com/MrSnakeDoc/startpage/internal/engines"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/mw"
	"github.com/MrSnakeDoc/startpage/internal/kv"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/pins"
	"github.com/MrSnakeDoc/startpage/internal/search"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AllowedHosts  []string           // Host headers allowed to access the server
	AllowedCIDRS  []string           // clients allowed on the ops endpoints
	TrustProxy    bool               // true behind a trusted reverse proxy (e.g., cloudflared)
	RateLimit     mw.RateLimitConfig // applied to /search and /api
	BasePath      string             // prefix for root-relative links in the page
	Engines       *engines.Registry
	Pins          *pins.Registry
	Catalog       *defaults.Catalog
	Suggester     search.Suggester // nil disables suggestions
	SuggestMode   string           // reported by /infra
	Storage       kv.Storage
	StorageKind   string        // sqlite, redis or memory
	ReloadTrigger chan struct{} // manual defaults reload
}
