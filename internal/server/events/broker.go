package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// queueSize bounds pending events; Publish drops events beyond it.
const queueSize = 64

// Broker distributes published events to every registered subscriber.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]struct{}
	events      chan Event
	now         func() time.Time
	logger      *zerolog.Logger
}

// NewBroker creates a broker. Call Run to start delivery.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]struct{}),
		events:      make(chan Event, queueSize),
		now:         time.Now,
		logger:      logger,
	}
}

// Run delivers events until ctx is done, then closes every subscriber.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for sub := range b.subscribers {
				_ = sub.Close()
			}
			clear(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().Msg("Event broker stopped")
			return

		case event := <-b.events:
			b.deliver(event)
		}
	}
}

// deliver sends event to a snapshot of the current subscribers.
func (b *Broker) deliver(event Event) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			b.logger.Warn().
				Err(err).
				Str("event_type", string(event.Type)).
				Msg("Failed to deliver event")
		}
	}

	b.logger.Debug().
		Str("event_type", string(event.Type)).
		Int("subscribers", len(subs)).
		Msg("Event delivered")
}

// Publish queues an event. It never blocks; a full queue drops the event.
func (b *Broker) Publish(eventType EventType, data any) bool {
	event := Event{Type: eventType, Timestamp: b.now(), Data: data}
	select {
	case b.events <- event:
		return true
	default:
		b.logger.Warn().
			Str("event_type", string(eventType)).
			Msg("Event queue full, event dropped")
		return false
	}
}

// Subscribe registers sub.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	n := len(b.subscribers)
	b.mu.Unlock()
	b.logger.Debug().Int("subscribers", n).Msg("Subscriber registered")
}

// Unsubscribe removes and closes sub.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	_, ok := b.subscribers[sub]
	delete(b.subscribers, sub)
	b.mu.Unlock()
	if ok {
		_ = sub.Close()
	}
}

// SubscriberCount returns the number of registered subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
