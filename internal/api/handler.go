// Package api provides the HTTP handlers for the assistant.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/techsolutions/assistente/internal/dialog"
	"github.com/techsolutions/assistente/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	router      *dialog.Router
	repo        store.Repository
	rateLimiter *RateLimiter
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(router *dialog.Router, repo store.Repository, rateLimiter *RateLimiter) *Handler {
	return &Handler{
		router:      router,
		repo:        repo,
		rateLimiter: rateLimiter,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Post("/leads", h.HandleCreateLead)
		r.Post("/tickets", h.HandleCreateTicket)
		r.Post("/slots", h.HandleListSlots)
		r.Post("/book", h.HandleBook)
	})
}

// JSON writes a JSON response with the given status code. The status line is
// already on the wire when encoding runs, so an encode failure can only be
// logged.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
