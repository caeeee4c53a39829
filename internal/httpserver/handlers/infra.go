package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/kv"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Keys       *int   `json:"keys,omitempty"`
	Engines    *int   `json:"engines,omitempty"`
	Pins       *int   `json:"pins,omitempty"`
	Source     string `json:"source,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the storage backend, the defaults catalog and
// the suggestion provider.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"storage":  checkStorage(r.Context(), d),
			"defaults": checkDefaults(d),
			"suggest":  checkSuggest(d),
			"engines":  {OK: true, Engines: ptr(len(d.Engines.List()))},
			"pinned":   {OK: true, Pins: ptr(len(d.Pins.List()))},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if !components["storage"].OK {
		return "degraded" // changes are kept in memory only
	}
	return "ok"
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	if err := pingStorage(ctx, d.Storage); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StorageKind,
			Impact: "changes-not-persisted",
			Error:  err.Error(),
		}
	}

	st := componentStatus{OK: true, Mode: d.StorageKind}
	if l, ok := d.Storage.(kv.Lister); ok {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if keys, err := l.Keys(ctx); err == nil {
			st.Keys = ptr(len(keys))
		}
	}
	return st
}

func checkDefaults(d deps.Deps) componentStatus {
	engines, pins := d.Catalog.Counts()
	last, source := d.Catalog.LastReload()
	lastStr := "never"
	if !last.IsZero() {
		lastStr = last.Format(time.DateTime)
	}
	return componentStatus{
		OK:         engines > 0,
		Engines:    &engines,
		Pins:       &pins,
		Source:     source,
		LastReload: lastStr,
	}
}

func checkSuggest(d deps.Deps) componentStatus {
	if d.Suggester == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	return componentStatus{OK: true, Mode: d.SuggestMode}
}

func ptr(n int) *int { return &n }
