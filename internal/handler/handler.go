// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/usuarios-api/usuarios/internal/model"
)

// Handler serves the informational and fallback routes.
type Handler struct {
	environment string
	now         func() time.Time
}

// New creates a new Handler reporting the given environment name.
func New(environment string) *Handler {
	return &Handler{
		environment: environment,
		now:         time.Now,
	}
}

// InfoResponse is the body of GET /.
type InfoResponse struct {
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// RouteNotFoundResponse is the body of every unmatched request.
type RouteNotFoundResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Info reports that the API is up.
// GET /
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Message:     "Api funcionando correctamente :)",
		Timestamp:   timestamp(h.now()),
		Environment: h.environment,
	})
}

// NotFound handles unmatched routes. The message echoes the request URI
// including its query string.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, RouteNotFoundResponse{
		Error:   "Ruta no encontrada",
		Message: "La ruta " + r.URL.RequestURI() + " no existe en esta API",
	})
}

// MethodNotAllowed answers like NotFound: a path without a handler for the
// method does not exist in this API.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.NotFound(w, r)
}

func timestamp(t time.Time) string {
	return model.FormatTimestamp(t)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}
