package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

func ListPins(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Pins.List())
	}
}

func AddPin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.SiteInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeDecodeError(w, err)
			return
		}

		site, err := d.Pins.Add(r.Context(), in)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		d.Logger.Info("pinned site added", logger.String("id", site.ID), logger.String("url", site.URL))
		writeJSON(w, http.StatusCreated, site)
	}
}

func EditPin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.SiteInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeDecodeError(w, err)
			return
		}

		site, err := d.Pins.Edit(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, site)
	}
}

func RemovePin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Pins.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// EditPinAt replaces the site at the position given in the path.
func EditPinAt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}
		var in domain.SiteInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeDecodeError(w, err)
			return
		}

		site, err := d.Pins.EditAt(r.Context(), index, in)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, site)
	}
}

// RemovePinAt deletes the site at the position given in the path and returns it.
func RemovePinAt(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}

		site, err := d.Pins.RemoveAt(r.Context(), index)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, site)
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return i, true
}
