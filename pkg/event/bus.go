// Package event provides the publish/subscribe bus the waterfall is composed
// with.
//
// The waterfall does not embed or extend the bus; it holds a [Bus] and the
// [Subscription] values it created, which makes teardown explicit. Handlers
// run synchronously on the publishing goroutine.
package event

import (
	"context"
	"sync"
	"sync/atomic"
)

// Topic names a kind of notification.
type Topic string

// ReachedBottom is published when the viewport comes within the configured
// threshold of the end of the scrollable area.
const ReachedBottom Topic = "reached-bottom"

// Event is a published notification.
type Event struct {
	Topic Topic
	Data  any
}

// Handler receives events for a topic.
type Handler func(ctx context.Context, e Event)

// Bus delivers events to subscribers.
type Bus interface {
	Subscribe(topic Topic, h Handler) *Subscription
	Publish(ctx context.Context, e Event)
}

// Subscription is a registered handler. Unsubscribe is idempotent and also
// suppresses delivery for a publish that is already dispatching.
type Subscription struct {
	topic  Topic
	h      Handler
	active atomic.Bool
	broker *Broker
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic { return s.topic }

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool { return s.active.Load() }

// Unsubscribe removes the handler.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active.CompareAndSwap(true, false) {
		return
	}
	s.broker.remove(s)
}

// Broker is the in-process Bus.
type Broker struct {
	mu   sync.RWMutex
	subs map[Topic][]*Subscription
}

// New returns an empty Broker.
func New() *Broker {
	return &Broker{subs: make(map[Topic][]*Subscription)}
}

// Subscribe registers h for topic. Handlers for a topic run in subscription
// order.
func (b *Broker) Subscribe(topic Topic, h Handler) *Subscription {
	s := &Subscription{topic: topic, h: h, broker: b}
	s.active.Store(true)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], s)
	return s
}

// Publish delivers e to the handlers subscribed at the time of the call.
// Handlers subscribed during dispatch do not see this event.
func (b *Broker) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := make([]*Subscription, len(b.subs[e.Topic]))
	copy(subs, b.subs[e.Topic])
	b.mu.RUnlock()

	for _, s := range subs {
		if s.Active() {
			s.h(ctx, e)
		}
	}
}

// Count returns the number of active subscriptions for topic.
func (b *Broker) Count(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *Broker) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[s.topic]
	for i, x := range list {
		if x == s {
			b.subs[s.topic] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[s.topic]) == 0 {
		delete(b.subs, s.topic)
	}
}

var _ Bus = (*Broker)(nil)
