package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/engines"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/search"
)

// fixedEngine pins a commit to one engine regardless of the selection.
type fixedEngine domain.Engine

func (f fixedEngine) Active() (domain.Engine, bool) { return domain.Engine(f), true }

// Search commits a query: it redirects to the chosen engine with the query
// substituted. engine selects an engine by id, otherwise the active one is
// used. A blank query goes back to the start page.
func Search(d deps.Deps) http.HandlerFunc {
	home := domain.PublicPath(d.BasePath, "/")

	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			d.Logger.Debug("empty query, redirecting to start page")
			http.Redirect(w, r, home, http.StatusFound)
			return
		}

		var source search.EngineSource = d.Engines
		if id := r.URL.Query().Get("engine"); id != "" {
			e, ok := d.Engines.Get(id)
			if !ok {
				writeDomainError(w, d.Logger, engines.ErrNotFound)
				return
			}
			source = fixedEngine(e)
		}

		target, err := search.Target(source, query)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}

		d.Logger.Info("search committed",
			logger.String("query", query),
			logger.String("target", target))
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// Suggest returns the completions for q as a JSON list. Failures and a
// disabled provider both yield an empty list.
func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" || d.Suggester == nil {
			writeJSON(w, http.StatusOK, []string{})
			return
		}

		list, err := d.Suggester.Suggest(r.Context(), query)
		if err != nil {
			d.Logger.Warn("suggestion fetch failed", logger.String("query", query), logger.Error(err))
			list = nil
		}
		if list == nil {
			list = []string{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
