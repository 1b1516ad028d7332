// Package bus abstracts the pub/sub channel that correlates gate requests
// with decision-service responses. Delivery is best-effort, at-most-once;
// within one topic, order matches publish order.
package bus

import "context"

// Publisher emits a JSON-encoded message on a topic, fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg any) error
	Close() error
}

// Subscriber receives raw message payloads from a topic.
type Subscriber interface {
	// Subscribe delivers payloads on the returned channel. Call the
	// returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// Bus combines both halves; every gate and every service instance needs both.
type Bus interface {
	Publisher
	Subscriber
}

// NoopPublisher is a Publisher that does nothing (used in tests and when a
// component only consumes).
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic string, msg any) error { return nil }

func (NoopPublisher) Close() error { return nil }
