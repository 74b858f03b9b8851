// Package pubsub fans decision envelopes out to in-process subscribers.
package pubsub

import (
	"context"
	"errors"
	"sync"
)

// AllTopics subscribes to every topic
const AllTopics = "*"

// DefaultBuffer is the per-subscription channel capacity
const DefaultBuffer = 100

// ErrClosed is returned when subscribing to a bus that has shut down
var ErrClosed = errors.New("pubsub: bus is shut down")

// Bus provides publish/subscribe of typed messages keyed by topic.
// Publishing never blocks; a subscriber whose buffer is full misses the message.
type Bus[T any] struct {
	subscribers map[string]map[*Subscription[T]]bool
	buffer      int
	mu          sync.RWMutex
	shutdown    chan struct{}
	isShutdown  bool
}

// Subscription is one subscriber's view of a topic
type Subscription[T any] struct {
	topic     string
	channel   chan T
	bus       *Bus[T]
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBus creates a bus whose subscriptions buffer up to buffer messages
func NewBus[T any](buffer int) *Bus[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus[T]{
		subscribers: make(map[string]map[*Subscription[T]]bool),
		buffer:      buffer,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers for messages on topic until ctx is done or the
// subscription is cancelled
func (b *Bus[T]) Subscribe(ctx context.Context, topic string) (*Subscription[T], error) {
	b.mu.Lock()
	if b.isShutdown {
		b.mu.Unlock()
		return nil, ErrClosed
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		topic:   topic,
		channel: make(chan T, b.buffer),
		bus:     b,
		ctx:     subCtx,
		cancel:  cancel,
	}
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription[T]]bool)
	}
	b.subscribers[topic][sub] = true
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.cancel()
			sub.close()
		}
	}()

	return sub, nil
}

// Publish offers message to the topic's subscribers and to AllTopics
// subscribers. It returns how many subscribers received it.
func (b *Bus[T]) Publish(topic string, message T) int {
	b.mu.RLock()
	if b.isShutdown {
		b.mu.RUnlock()
		return 0
	}
	// copy so sends happen outside the lock
	subs := make([]*Subscription[T], 0, len(b.subscribers[topic])+len(b.subscribers[AllTopics]))
	for sub := range b.subscribers[topic] {
		subs = append(subs, sub)
	}
	if topic != AllTopics {
		for sub := range b.subscribers[AllTopics] {
			subs = append(subs, sub)
		}
	}
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if sub.offer(message) {
			delivered++
		}
	}
	return delivered
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Bus[T]) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes all subscriptions. Later publishes are dropped.
func (b *Bus[T]) Shutdown() {
	b.mu.Lock()
	if b.isShutdown {
		b.mu.Unlock()
		return
	}
	b.isShutdown = true
	close(b.shutdown)

	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.cancel()
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Channel returns the subscription's message channel. It is closed when
// the subscription ends.
func (s *Subscription[T]) Channel() <-chan T {
	return s.channel
}

// Done is closed once the subscription ends, whether by its context,
// Unsubscribe or Shutdown
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Topic returns the subscribed topic
func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Unsubscribe removes the subscription
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	if subs := s.bus.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.bus.subscribers, s.topic)
		}
	}
	// close under the bus lock so a concurrent Publish never sends on a
	// closed channel
	s.close()
	s.bus.mu.Unlock()
}

// offer sends without blocking. The caller must not hold the bus lock.
func (s *Subscription[T]) offer(message T) (sent bool) {
	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()
	if _, live := s.bus.subscribers[s.topic][s]; !live {
		return false
	}
	select {
	case s.channel <- message:
		return true
	default:
		return false
	}
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
