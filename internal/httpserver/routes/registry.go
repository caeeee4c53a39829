package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
)

// Registrar mounts one group of routes. Middlewares are attached inside the
// registrar with r.With or r.Use.
type Registrar func(r chi.Router, d deps.Deps)

var registry []Registrar

// Register adds reg to the routes mounted by RegisterAll.
func Register(reg Registrar) {
	registry = append(registry, reg)
}

// RegisterAll mounts every registered route on r. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registry {
		reg(r, d)
	}
}
