package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	ws "github.com/agentstation/assetmap/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at /api/v1/updates/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := uuid.NewString()
	h.wsHub.Serve(r.Context(), clientID, conn, &ws.Message{
		Type:      "client.connected",
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"message":   "Connected to assetmap updates",
			"client_id": clientID,
		},
	})
}

// HandleSSE handles Server-Sent Events at /api/v1/updates/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
