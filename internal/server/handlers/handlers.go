// Package handlers provides HTTP request handlers for the assetmap API.
package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/assetmap"
	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/server/cache"
	"github.com/agentstation/assetmap/internal/server/sse"
	ws "github.com/agentstation/assetmap/internal/server/websocket"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/stats"
)

// latestID resolves to the newest stored snapshot.
const latestID = "latest"

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app            appcontext.Interface
	assetmap       assetmap.Assetmap
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
}

// New creates a new Handlers instance.
func New(
	app appcontext.Interface,
	am assetmap.Assetmap,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		app:            app,
		assetmap:       am,
		cache:          cache,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
	}
}

// snapshot looks up a stored snapshot; "latest" selects the newest one.
func (h *Handlers) snapshot(id string) (*inventory.Snapshot, error) {
	if id == latestID {
		return h.assetmap.Snapshots().Latest()
	}
	return h.assetmap.Snapshots().Get(id)
}

// policy returns the policy a snapshot was computed under. The session
// policy wins over a registered one of the same name, since a policy file
// may reuse a built-in name. Unknown names fall back to the session policy.
func (h *Handlers) policy(snap *inventory.Snapshot) *stats.Policy {
	session := h.assetmap.Policy()
	if session.Name == snap.Policy {
		return session
	}
	if p, err := stats.Get(snap.Policy); err == nil {
		return p
	}
	return session
}
