// Package events fans snapshot notifications out to the streaming
// transports (WebSocket, SSE) through a single broker.
package events

import (
	"time"

	"github.com/agentstation/assetmap/pkg/inventory"
)

// EventType names an event on the update stream.
type EventType string

// Event types.
const (
	SnapshotCreated  EventType = "snapshot.created"
	SnapshotPromoted EventType = "snapshot.promoted"

	// ClientConnected is sent by transports to a new client only.
	ClientConnected EventType = "client.connected"
)

// Event is one message on the update stream.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// SnapshotData is the payload of snapshot events. Record collections are
// never streamed; clients fetch them by ID.
type SnapshotData struct {
	Snapshot inventory.Summary `json:"snapshot"`
	DraftID  string            `json:"draft_id,omitempty"`
}
