package bus

import (
	"context"
	"testing"
	"time"
)

func TestMemory_PublishSubscribe(t *testing.T) {
	m := NewMemory()
	ch, cancel, err := m.Subscribe("topic")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	if err := m.Publish(context.Background(), "topic", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	select {
	case msg := <-ch:
		if string(msg) != `{"k":"v"}` {
			t.Errorf("got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestMemory_TopicIsolation(t *testing.T) {
	m := NewMemory()
	ch, cancel, err := m.Subscribe("a")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	if err := m.Publish(context.Background(), "b", map[string]string{}); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	select {
	case msg := <-ch:
		t.Fatalf("received message %q on wrong topic", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemory_CancelClosesChannel(t *testing.T) {
	m := NewMemory()
	ch, cancel, err := m.Subscribe("topic")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	cancel()
	cancel() // second cancel must not panic

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}

	// Publishing after cancel must not panic either.
	if err := m.Publish(context.Background(), "topic", map[string]string{}); err != nil {
		t.Fatalf("publishing after cancel: %v", err)
	}
}

func TestMemory_ImplementsBus(t *testing.T) {
	var _ Bus = (*Memory)(nil)
}
