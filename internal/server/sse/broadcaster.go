// Package sse streams snapshot events as Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const clientBuffer = 32

// Event is one SSE frame.
type Event struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}

// Broadcaster tracks open streams and writes events to them.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[chan Event]struct{}
	events  chan Event
	done    chan struct{}
	logger  *zerolog.Logger
}

// NewBroadcaster creates a broadcaster. Call Run to start it.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan Event]struct{}),
		events:  make(chan Event, clientBuffer),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// Run delivers broadcasts until ctx is done, then ends every stream.
func (b *Broadcaster) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.events:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client <- event:
				default:
					b.logger.Warn().Str("event", event.Event).Msg("SSE client buffer full, event skipped")
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Broadcast queues event for every stream. It never blocks.
func (b *Broadcaster) Broadcast(event Event) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn().Str("event", event.Event).Msg("SSE broadcast queue full, event dropped")
	}
}

// ClientCount returns the number of open streams.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) add() chan Event {
	client := make(chan Event, clientBuffer)
	b.mu.Lock()
	b.clients[client] = struct{}{}
	n := len(b.clients)
	b.mu.Unlock()
	b.logger.Info().Int("clients", n).Msg("SSE client connected")
	return client
}

func (b *Broadcaster) remove(client chan Event) {
	b.mu.Lock()
	delete(b.clients, client)
	n := len(b.clients)
	b.mu.Unlock()
	b.logger.Info().Int("clients", n).Msg("SSE client disconnected")
}

// ServeHTTP streams events to one client until it disconnects or the
// broadcaster stops.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := b.add()
	defer b.remove(client)

	b.write(w, flusher, Event{
		Event: "client.connected",
		Data: map[string]any{
			"message":   "Connected to assetmap updates stream",
			"timestamp": time.Now().UTC(),
		},
	})

	for {
		select {
		case event := <-client:
			b.write(w, flusher, event)
		case <-r.Context().Done():
			return
		case <-b.done:
			return
		}
	}
}

func (b *Broadcaster) write(w http.ResponseWriter, flusher http.Flusher, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to encode SSE event")
		return
	}
	if event.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event.Event)
	}
	if event.ID != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", event.ID)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
