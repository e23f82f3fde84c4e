package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/techsolutions/assistente/internal/dialog"
)

// WebSocketHandler serves the streaming chat channel. It speaks the same turn
// protocol as POST /api/chat, one JSON message per turn, over a persistent
// connection.
type WebSocketHandler struct {
	router         *dialog.Router
	rateLimiter    *RateLimiter
	allowedOrigins []string
	isDev          bool
}

// NewWebSocketHandler creates a new WebSocket chat handler.
func NewWebSocketHandler(router *dialog.Router, rateLimiter *RateLimiter, allowedOrigins []string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		router:         router,
		rateLimiter:    rateLimiter,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
	}
}

// wsRequest is one inbound chat message.
type wsRequest struct {
	Message string `json:"message"`
}

// wsResponse mirrors the HTTP chat response, with an error variant.
type wsResponse struct {
	Reply   string `json:"reply,omitempty"`
	Intent  string `json:"intent,omitempty"`
	Privacy string `json:"privacy,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "sessionId é obrigatório", http.StatusBadRequest)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("failed to accept websocket", "error", err, "session", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("failed to close websocket", "error", closeErr, "session", sessionID)
		}
	}()

	slog.Info("websocket chat connected", "session", sessionID, "ip", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, raw, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("websocket closed by client", "session", sessionID)
			} else {
				slog.Warn("websocket read error", "error", err, "session", sessionID)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			// Plain text is accepted as the message itself.
			req.Message = string(raw)
		}
		if req.Message == "" {
			if err := h.writeJSON(ctx, ws, wsResponse{Error: "message é obrigatório."}); err != nil {
				return
			}
			continue
		}

		if !h.rateLimiter.Allow(sessionID) {
			if err := h.writeJSON(ctx, ws, wsResponse{Error: "muitas requisições, tente novamente em instantes."}); err != nil {
				return
			}
			continue
		}

		result, err := h.router.Submit(ctx, sessionID, req.Message)
		if err != nil {
			slog.Error("websocket chat turn failed", "session", sessionID, "error", err)
			if err := h.writeJSON(ctx, ws, wsResponse{Error: "não foi possível processar a mensagem."}); err != nil {
				return
			}
			continue
		}

		if err := h.writeJSON(ctx, ws, wsResponse{
			Reply:   result.Reply,
			Intent:  string(result.Intent),
			Privacy: result.Privacy,
		}); err != nil {
			slog.Warn("websocket write error", "error", err, "session", sessionID)
			return
		}
	}
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	slog.Warn("websocket origin rejected", "origin", origin)
	return false
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v wsResponse) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
