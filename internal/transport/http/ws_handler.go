package http

import (
	"log/slog"
	"net/http"
	"strings"

	gorilla "github.com/gorilla/websocket"

	"pickpulse/internal/infrastructure"
	"pickpulse/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections and hands them to the hub
type WebSocketHandler struct {
	hub      *websocket.Hub
	logger   *slog.Logger
	upgrader gorilla.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler. allowedOrigins
// restricts which browser origins may connect; requests without an
// Origin header (non-browser clients) are always accepted.
func NewWebSocketHandler(hub *websocket.Hub, logger *slog.Logger, allowedOrigins []string, readBuf, writeBuf int) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger.With(slog.String("component", "websocket_handler")),
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
	}
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		h.logger.ErrorContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	websocket.ServeWS(h.hub, conn, infrastructure.GetTraceID(r.Context()))
}
