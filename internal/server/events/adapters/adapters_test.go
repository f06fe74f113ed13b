package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/assetmap/internal/server/events"
	"github.com/agentstation/assetmap/internal/server/sse"
	ws "github.com/agentstation/assetmap/internal/server/websocket"
	"github.com/agentstation/assetmap/pkg/logging"
)

var event = events.Event{
	Type:      events.SnapshotPromoted,
	Timestamp: time.Date(2025, time.November, 15, 12, 0, 0, 0, time.UTC),
	Data:      events.SnapshotData{DraftID: "draft-1"},
}

func TestSSEEvent(t *testing.T) {
	got := SSEEvent(event)

	assert.Equal(t, "snapshot.promoted", got.Event)
	assert.Equal(t, "1763208000000", got.ID)
	assert.Equal(t, event.Data, got.Data)
}

func TestWebSocketMessage(t *testing.T) {
	got := WebSocketMessage(event)

	assert.Equal(t, "snapshot.promoted", got.Type)
	assert.Equal(t, event.Timestamp, got.Timestamp)
	assert.Equal(t, event.Data, got.Data)
}

func TestSubscribersImplementInterface(t *testing.T) {
	subs := []events.Subscriber{
		NewSSESubscriber(sse.NewBroadcaster(logging.NewNopLogger())),
		NewWebSocketSubscriber(ws.NewHub(logging.NewNopLogger())),
	}
	for _, sub := range subs {
		assert.NoError(t, sub.Send(event))
		assert.NoError(t, sub.Close())
	}
}
