package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS is a Bus backed by a single NATS connection. Request and response
// topics map directly to NATS subjects.
type NATS struct {
	conn *nats.Conn
}

// ConnectNATS dials the broker with automatic reconnection. Extra
// nats.Option values (e.g. disconnect/reconnect handlers) can be appended.
func ConnectNATS(url string, opts ...nats.Option) (*NATS, error) {
	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATS{conn: nc}, nil
}

// Publish JSON-encodes msg and publishes it on topic. Fire-and-forget: no
// acknowledgment is awaited.
func (b *NATS) Publish(ctx context.Context, topic string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	return b.conn.Publish(topic, data)
}

// Subscribe returns a channel that receives raw payloads for the given topic.
// The channel is bounded; if a consumer falls behind, messages are dropped
// rather than blocking the NATS client (the gate's timeout is the recovery
// path for a dropped response).
func (b *NATS) Subscribe(topic string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 64)

	var (
		mu     sync.Mutex
		closed bool
		once   sync.Once
	)

	sub, err := b.conn.Subscribe(topic, func(msg *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- msg.Data:
		default:
		}
	})
	if err != nil {
		close(ch)
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	// Flush ensures the subscription is registered on the server before
	// returning, so messages published on other connections are routed.
	if err := b.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(ch)
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			mu.Lock()
			closed = true
			mu.Unlock()
			// Drain remaining messages so the handler doesn't block,
			// then close.
			for {
				select {
				case <-ch:
				default:
					close(ch)
					return
				}
			}
		})
	}

	return ch, cancel, nil
}

// Flush blocks until all buffered publishes have reached the server. Used by
// tests and by shutdown paths that must not lose a final outcome.
func (b *NATS) Flush() error {
	return b.conn.Flush()
}

func (b *NATS) Close() error {
	b.conn.Close()
	return nil
}
