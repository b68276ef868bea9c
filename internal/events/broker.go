package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Publisher is the write-side seam the repository layer depends on.
// A nil *Broker satisfies callers through the package-level Publish
// helper, which keeps tests that don't care about events quiet.
type Publisher interface {
	Publish(topic Topic)
}

// Broker is an in-process change broadcaster. There is a single writer
// per process, so delivery is a fan-out from repository writes to any
// number of live-query subscribers.
type Broker struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
	seq  atomic.Int64
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[*Subscription]struct{}),
	}
}

// Publish notifies every subscription interested in topic. Delivery is
// non-blocking: a subscriber that has stopped draining its channel
// misses the event and catches up on the next one, since events carry
// no payload beyond "something changed".
func (b *Broker) Publish(topic Topic) {
	ev := Event{
		Topic:     topic,
		Timestamp: time.Now(),
		Seq:       b.seq.Add(1),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			slog.Debug("dropping change event for slow subscriber",
				"topic", topic,
				"seq", ev.Seq)
		}
	}
}

// Subscribe registers interest in the given topics. With no topics the
// subscription receives every event. The caller must Cancel the
// subscription when done.
func (b *Broker) Subscribe(topics ...Topic) *Subscription {
	sub := &Subscription{
		broker: b,
		ch:     make(chan Event, 16),
		topics: make(map[Topic]struct{}, len(topics)),
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Subscription is a live handle onto the broker's event stream.
type Subscription struct {
	broker *Broker
	ch     chan Event
	topics map[Topic]struct{}
	once   sync.Once
}

// Events returns the receive channel. It is closed by Cancel.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Cancel stops further delivery and closes the event channel. It has no
// effect on stored data and is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.remove(s)
		close(s.ch)
	})
}

func (s *Subscription) wants(topic Topic) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

// Publish is a nil-safe helper for the fire-and-forget publish pattern
// used by the repository layer.
func Publish(p Publisher, topic Topic) {
	if p != nil {
		p.Publish(topic)
	}
}
