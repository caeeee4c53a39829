package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

//go:embed assets/page.html.tmpl assets/globe.svg
var assets embed.FS

var pageTmpl = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))

// GlobePath is where the placeholder glyph is served.
const GlobePath = "/static/globe.svg"

type pageData struct {
	Engines      []domain.Engine
	ActiveID     string
	Pins         []domain.PinnedSite
	Suggest      bool
	SearchAction string
	SuggestURL   string
	ActiveURL    string
	Globe        string
}

// Page renders the start page: engine picker, search box and pinned sites.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Engines:      d.Engines.List(),
			Pins:         d.Pins.List(),
			Suggest:      d.Suggester != nil,
			SearchAction: domain.PublicPath(d.BasePath, "/search"),
			SuggestURL:   domain.PublicPath(d.BasePath, "/api/suggest"),
			ActiveURL:    domain.PublicPath(d.BasePath, "/api/engines/active"),
			Globe:        domain.PublicPath(d.BasePath, GlobePath),
		}
		if a, ok := d.Engines.Active(); ok {
			data.ActiveID = a.ID
		}

		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, data); err != nil {
			d.Logger.Error("failed to render start page", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}

// Globe serves the bundled placeholder glyph.
func Globe() http.HandlerFunc {
	svg, err := assets.ReadFile("assets/globe.svg")
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(svg)
	}
}
