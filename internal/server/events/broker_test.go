package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/pkg/logging"
)

type recordingSubscriber struct {
	mu     sync.Mutex
	events []Event
	closed bool
	err    error
}

func (r *recordingSubscriber) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingSubscriber) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSubscriber) received() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recordingSubscriber) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	first := &recordingSubscriber{}
	second := &recordingSubscriber{err: errors.New("client gone")}
	b.Subscribe(first)
	b.Subscribe(second)
	assert.Equal(t, 2, b.SubscriberCount())

	require.True(t, b.Publish(SnapshotCreated, SnapshotData{}))
	require.True(t, b.Publish(SnapshotPromoted, SnapshotData{DraftID: "d1"}))

	for _, sub := range []*recordingSubscriber{first, second} {
		require.Eventually(t, func() bool { return len(sub.received()) == 2 }, time.Second, 5*time.Millisecond)
		got := sub.received()
		assert.Equal(t, SnapshotCreated, got[0].Type)
		assert.Equal(t, SnapshotPromoted, got[1].Type)
		assert.False(t, got[0].Timestamp.IsZero())
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	sub := &recordingSubscriber{}

	b.Subscribe(sub)
	b.Unsubscribe(sub)

	assert.Equal(t, 0, b.SubscriberCount())
	assert.True(t, sub.isClosed())
}

func TestBrokerPublishDropsWhenFull(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())

	for range queueSize {
		require.True(t, b.Publish(SnapshotCreated, nil))
	}
	assert.False(t, b.Publish(SnapshotCreated, nil))
}

func TestBrokerRunClosesSubscribers(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	sub := &recordingSubscriber{}
	b.Subscribe(sub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broker did not stop")
	}
	assert.True(t, sub.isClosed())
	assert.Equal(t, 0, b.SubscriberCount())
}
