// Package adapters connects the event broker to the streaming transports.
package adapters

import (
	"strconv"

	"github.com/agentstation/assetmap/internal/server/events"
	"github.com/agentstation/assetmap/internal/server/sse"
	ws "github.com/agentstation/assetmap/internal/server/websocket"
)

// SSESubscriber forwards events to an SSE broadcaster.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
}

// NewSSESubscriber creates a new SSE subscriber.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send implements events.Subscriber.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(SSEEvent(event))
	return nil
}

// Close is a no-op; the broadcaster owns its streams.
func (s *SSESubscriber) Close() error {
	return nil
}

// SSEEvent converts a broker event into an SSE frame. The frame ID is the
// event time in Unix milliseconds.
func SSEEvent(event events.Event) sse.Event {
	return sse.Event{
		Event: string(event.Type),
		ID:    strconv.FormatInt(event.Timestamp.UnixMilli(), 10),
		Data:  event.Data,
	}
}

// WebSocketSubscriber forwards events to a WebSocket hub.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber creates a new WebSocket subscriber.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send implements events.Subscriber.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(WebSocketMessage(event))
	return nil
}

// Close is a no-op; the hub owns its connections.
func (w *WebSocketSubscriber) Close() error {
	return nil
}

// WebSocketMessage converts a broker event into a WebSocket frame.
func WebSocketMessage(event events.Event) ws.Message {
	return ws.Message{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	}
}
