package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/MrSnakeDoc/startpage/internal/engines"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/pins"
	"github.com/MrSnakeDoc/startpage/internal/search"
)

const maxBodyBytes = 64 << 10

var errNotJSON = errors.New("request body must be application/json")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps the registry sentinels to a status code.
func writeDomainError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, engines.ErrNotFound), errors.Is(err, pins.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pins.ErrIndexOutOfRange), errors.Is(err, pins.ErrInvalidSite):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, search.ErrNoEngine):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error("request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON only accepts application/json bodies. Forms and text/plain can
// be posted cross-site without a preflight.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		return errNotJSON
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotJSON) {
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
