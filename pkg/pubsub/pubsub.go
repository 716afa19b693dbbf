// Package pubsub fans analysis events out to in-process subscribers and,
// through NNGBridge, to external listeners on a nanomsg PUB socket.
package pubsub

import (
	"context"
	"errors"
	"sync"

	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
)

// ErrBrokerClosed is returned when subscribing after Shutdown
var ErrBrokerClosed = errors.New("broker is shut down")

// SubscriptionBuffer is the per-subscriber channel capacity. Events for a
// subscriber whose buffer is full are dropped.
const SubscriptionBuffer = 100

// Broker delivers events to subscribers by topic
type Broker struct {
	subscribers map[string]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
	metrics     *metrics.Registry
}

// Subscription receives the events of one topic
type Subscription struct {
	topic     string
	channel   chan any
	broker    *Broker
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBroker creates a broker. reg may be nil.
func NewBroker(reg *metrics.Registry) *Broker {
	return &Broker{
		subscribers: make(map[string]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
		metrics:     reg,
	}
}

// Subscribe registers for topic until ctx ends or Unsubscribe is called.
func (b *Broker) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	b.shutdownMu.Lock()
	closed := b.isShutdown
	b.shutdownMu.Unlock()
	if closed {
		return nil, ErrBrokerClosed
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:   topic,
		channel: make(chan any, SubscriptionBuffer),
		broker:  b,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]bool)
	}
	b.subscribers[topic][sub] = true
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.close()
		}
	}()

	return sub, nil
}

// Publish delivers event to every subscriber of topic without blocking and
// returns how many received it.
func (b *Broker) Publish(topic string, event any) int {
	b.shutdownMu.Lock()
	closed := b.isShutdown
	b.shutdownMu.Unlock()
	if closed {
		return 0
	}

	// Snapshot so slow sends never hold the lock
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subscribers[topic]))
	for sub := range b.subscribers[topic] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		select {
		case sub.channel <- event:
			delivered++
		default:
		}
	}

	if b.metrics != nil && delivered > 0 {
		b.metrics.EventsPublished.WithLabelValues("inproc").Add(float64(delivered))
	}
	return delivered
}

// SubscriberCount returns the number of subscribers of topic
func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes every subscription. Later publishes are ignored.
func (b *Broker) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for topic, subs := range b.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Channel returns the event channel; it is closed when the subscription ends.
func (s *Subscription) Channel() <-chan any {
	return s.channel
}

// Topic returns the subscribed topic
func (s *Subscription) Topic() string {
	return s.topic
}

// Unsubscribe ends the subscription
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.broker.mu.Lock()
	if subs := s.broker.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.broker.subscribers, s.topic)
		}
	}
	s.broker.mu.Unlock()

	s.close()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
