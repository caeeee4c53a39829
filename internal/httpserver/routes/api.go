package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

// registerAPI mounts the search commit and the JSON API behind one shared
// rate limiter. API writes must come from the page itself.
func registerAPI(r chi.Router, d deps.Deps) {
	host := mw.EnforceHost(d.AllowedHosts, d.Logger)
	limit := mw.RateLimit(d.RateLimit)
	sameOrigin := mw.SameOrigin(d.Logger)

	r.With(host, limit).Get("/search", handlers.Search(d))

	r.Route("/api", func(api chi.Router) {
		api.Use(host, sameOrigin, limit)

		api.Get("/suggest", handlers.Suggest(d))

		api.Route("/engines", func(e chi.Router) {
			e.Get("/", handlers.ListEngines(d))
			e.Post("/", handlers.AddEngine(d))
			e.Get("/active", handlers.ActiveEngine(d))
			e.Put("/active", handlers.SelectEngine(d))
			e.Patch("/{id}", handlers.UpdateEngine(d))
			e.Delete("/{id}", handlers.RemoveEngine(d))
		})

		api.Route("/pins", func(p chi.Router) {
			p.Get("/", handlers.ListPins(d))
			p.Post("/", handlers.AddPin(d))
			p.Put("/at/{index}", handlers.EditPinAt(d))
			p.Delete("/at/{index}", handlers.RemovePinAt(d))
			p.Put("/{id}", handlers.EditPin(d))
			p.Delete("/{id}", handlers.RemovePin(d))
		})
	})
}
