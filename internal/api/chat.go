package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/techsolutions/assistente/internal/dialog"
)

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ChatResponse is the POST /api/chat reply.
type ChatResponse struct {
	Reply   string `json:"reply"`
	Intent  string `json:"intent"`
	Privacy string `json:"privacy"`
}

// HandleChat handles POST /api/chat requests.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "corpo da requisição inválido.")
		return
	}
	if req.SessionID == "" || req.Message == "" {
		Error(w, http.StatusBadRequest, "message e sessionId são obrigatórios.")
		return
	}

	if !h.rateLimiter.Allow(req.SessionID) {
		Error(w, http.StatusTooManyRequests, "muitas requisições, tente novamente em instantes.")
		return
	}

	result, err := h.router.Submit(r.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, dialog.ErrBadInput) {
			Error(w, http.StatusBadRequest, "message e sessionId são obrigatórios.")
			return
		}
		slog.Error("chat turn failed", "session", req.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "não foi possível processar a mensagem.")
		return
	}

	JSON(w, http.StatusOK, ChatResponse{
		Reply:   result.Reply,
		Intent:  string(result.Intent),
		Privacy: result.Privacy,
	})
}
