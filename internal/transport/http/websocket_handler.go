package http

import (
	"log/slog"
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"fleetadmin/internal/infrastructure"
	ws "fleetadmin/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections and hands them to the hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader gorillaws.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler creates the websocket upgrade handler. allowedOrigins
// mirrors the CORS configuration; an empty list allows same-origin only.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:    hub,
		logger: logger.With(slog.String("component", "websocket_handler")),
	}
	h.upgrader = gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeHTTP handles GET /ws.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())
	ws.ServeWS(h.hub, conn, traceID)
}
