package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
)

// NNGBridge forwards broker events to a nanomsg PUB socket. Each message is
// the topic, a colon, then the JSON event, so SUB sockets can filter by
// topic prefix.
type NNGBridge struct {
	sock    mangos.Socket
	url     string
	logger  logging.Logger
	metrics *metrics.Registry

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewNNGBridge binds a PUB socket at url, e.g. tcp://*:40899 or inproc://events.
func NewNNGBridge(url string, logger logging.Logger, reg *metrics.Registry) (*NNGBridge, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(url); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket to %s: %w", url, err)
	}

	return &NNGBridge{
		sock:    sock,
		url:     url,
		logger:  logging.OrNop(logger).With(logging.Component("nng-bridge")),
		metrics: reg,
	}, nil
}

// Forward relays every event of the given topics from b until Close.
func (n *NNGBridge) Forward(b *Broker, topics ...string) error {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	for _, topic := range topics {
		sub, err := b.Subscribe(ctx, topic)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}

		n.wg.Add(1)
		go n.relay(sub)
	}

	n.logger.Info("event bridge started", logging.String("url", n.url), logging.Count(len(topics)))
	return nil
}

func (n *NNGBridge) relay(sub *Subscription) {
	defer n.wg.Done()
	for event := range sub.Channel() {
		if err := n.Send(sub.Topic(), event); err != nil {
			n.logger.Warn("failed to forward event", logging.String("topic", sub.Topic()), logging.Error(err))
		}
	}
}

// Send publishes one event directly.
func (n *NNGBridge) Send(topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := make([]byte, 0, len(topic)+1+len(data))
	msg = append(msg, topic...)
	msg = append(msg, ':')
	msg = append(msg, data...)

	if err := n.sock.Send(msg); err != nil {
		return err
	}
	if n.metrics != nil {
		n.metrics.EventsPublished.WithLabelValues("nng").Inc()
	}
	return nil
}

// Close stops forwarding and closes the socket.
func (n *NNGBridge) Close() error {
	var err error
	n.once.Do(func() {
		if n.cancel != nil {
			n.cancel()
		}
		n.wg.Wait()
		err = n.sock.Close()
	})
	return err
}
