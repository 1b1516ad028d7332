package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Bus used by tests and single-process demos. It
// mirrors the NATS behavior the rest of the system depends on: bounded
// per-subscriber channels, drop-on-full, broadcast to every subscriber of a
// topic.
type Memory struct {
	mu   sync.Mutex
	subs map[string][]chan []byte
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string][]chan []byte)}
}

func (m *Memory) Publish(ctx context.Context, topic string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs[topic] {
		select {
		case ch <- data:
		default:
		}
	}
	return nil
}

func (m *Memory) Subscribe(topic string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 64)
	m.mu.Lock()
	m.subs[topic] = append(m.subs[topic], ch)
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			chans := m.subs[topic]
			for i, c := range chans {
				if c == ch {
					m.subs[topic] = append(chans[:i], chans[i+1:]...)
					break
				}
			}
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// SubscriberCount reports how many subscriptions a topic has. Tests use it
// to wait for a consumer loop to come up before publishing.
func (m *Memory) SubscriberCount(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[topic])
}

func (m *Memory) Close() error { return nil }
