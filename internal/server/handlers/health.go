package handlers

import (
	"net/http"

	"github.com/agentstation/assetmap/internal/server/response"
)

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "assetmap-api",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if h.assetmap == nil || h.assetmap.Snapshots() == nil {
		response.ServiceUnavailable(w, "Snapshot store not available")
		return
	}

	response.OK(w, map[string]any{
		"status":    "ready",
		"snapshots": h.assetmap.Snapshots().Len(),
		"policy":    h.assetmap.Policy().Name,
		"cache": map[string]any{
			"narratives": h.cache.ItemCount(),
		},
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
