package feed

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests into live-feed subscriptions.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHandler constructs a Handler. An empty allowedOrigin accepts any
// origin, which suits the demo deployment.
func NewHandler(hub *Hub, allowedOrigin string, logger *log.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles GET /ws/energy. Each new subscriber first receives
// one catch-up dashboardData push, then joins the broadcast set, so
// the snapshot always precedes any broadcast frame for that
// subscriber.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.hub == nil {
		http.Error(w, "feed not ready", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("feed upgrade error: %v", err)
		}
		return
	}

	client := newClient(h.hub, conn)

	go client.writePump()
	h.hub.pushSnapshot(client.ctx, client)
	h.hub.register(client)
	client.readPump()
}
