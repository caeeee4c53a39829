package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/engines"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

type engineView struct {
	domain.Engine
	IconURL string `json:"icon_url"`
}

type enginesResponse struct {
	Engines []engineView `json:"engines"`
	Active  *engineView  `json:"active,omitempty"`
}

type selectRequest struct {
	ID string `json:"id"`
}

func viewOf(e domain.Engine) engineView {
	return engineView{Engine: e, IconURL: e.IconURL()}
}

// ListEngines returns the engines in order plus the active one.
func ListEngines(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := d.Engines.List()
		resp := enginesResponse{Engines: make([]engineView, 0, len(list))}
		for _, e := range list {
			resp.Engines = append(resp.Engines, viewOf(e))
		}
		if a, ok := d.Engines.Active(); ok {
			v := viewOf(a)
			resp.Active = &v
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// AddEngine appends a blank engine. When the last engine is still blank it
// is returned with 200 instead of adding another.
func AddEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, added := d.Engines.Add(r.Context())
		status := http.StatusOK
		if added {
			status = http.StatusCreated
			d.Logger.Info("engine added", logger.String("id", e.ID))
		}
		writeJSON(w, status, viewOf(e))
	}
}

func UpdateEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.EnginePatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeDecodeError(w, err)
			return
		}

		e, ok := d.Engines.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if !ok {
			writeDomainError(w, d.Logger, engines.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(e))
	}
}

func RemoveEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !d.Engines.Remove(r.Context(), id) {
			writeDomainError(w, d.Logger, engines.ErrNotFound)
			return
		}
		d.Logger.Info("engine removed", logger.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ActiveEngine returns the engine searches go to.
func ActiveEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := d.Engines.Active()
		if !ok {
			writeError(w, http.StatusNotFound, "no engine configured")
			return
		}
		writeJSON(w, http.StatusOK, viewOf(a))
	}
}

func SelectEngine(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}

		e, err := d.Engines.Select(r.Context(), req.ID)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(e))
	}
}
