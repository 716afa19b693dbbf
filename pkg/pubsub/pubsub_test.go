package pubsub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func receive(t *testing.T, sub *Subscription) any {
	t.Helper()
	select {
	case msg := <-sub.Channel():
		return msg
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
		return nil
	}
}

func TestBasicPublish(t *testing.T) {
	b := NewBroker(nil)
	defer b.Shutdown()

	sub, err := b.Subscribe(context.Background(), TopicAnalysisCompleted)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	if n := b.Publish(TopicAnalysisCompleted, "done"); n != 1 {
		t.Errorf("Expected 1 delivery, got %d", n)
	}
	if msg := receive(t, sub); msg != "done" {
		t.Errorf("Expected 'done', got %v", msg)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	b := NewBroker(nil)
	defer b.Shutdown()

	var subs []*Subscription
	for i := 0; i < 5; i++ {
		sub, err := b.Subscribe(context.Background(), "fanout")
		if err != nil {
			t.Fatalf("Failed to subscribe %d: %v", i, err)
		}
		subs = append(subs, sub)
	}

	if n := b.Publish("fanout", 42); n != 5 {
		t.Errorf("Expected 5 deliveries, got %d", n)
	}
	for i, sub := range subs {
		if msg := receive(t, sub); msg != 42 {
			t.Errorf("Subscriber %d: expected 42, got %v", i, msg)
		}
	}
}

func TestTopicIsolation(t *testing.T) {
	b := NewBroker(nil)
	defer b.Shutdown()

	a, _ := b.Subscribe(context.Background(), "a")
	other, _ := b.Subscribe(context.Background(), "b")

	b.Publish("a", "for a")

	if msg := receive(t, a); msg != "for a" {
		t.Errorf("Expected 'for a', got %v", msg)
	}
	select {
	case msg := <-other.Channel():
		t.Errorf("Topic b received %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBroker(nil)
	defer b.Shutdown()

	sub, _ := b.Subscribe(context.Background(), "t")
	if got := b.SubscriberCount("t"); got != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", got)
	}

	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	if got := b.SubscriberCount("t"); got != 0 {
		t.Errorf("Expected 0 subscribers, got %d", got)
	}
	if _, ok := <-sub.Channel(); ok {
		t.Error("Expected channel to be closed")
	}
	if n := b.Publish("t", "late"); n != 0 {
		t.Errorf("Expected no deliveries, got %d", n)
	}
}

func TestContextCancellation(t *testing.T) {
	b := NewBroker(nil)
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	sub, _ := b.Subscribe(ctx, "t")
	cancel()

	select {
	case _, ok := <-sub.Channel():
		if ok {
			t.Error("Expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("Subscription not closed after context cancel")
	}

	deadline := time.Now().Add(time.Second)
	for b.SubscriberCount("t") != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := b.SubscriberCount("t"); got != 0 {
		t.Errorf("Expected 0 subscribers, got %d", got)
	}
}

func TestFullBufferDrops(t *testing.T) {
	b := NewBroker(nil)
	defer b.Shutdown()

	sub, _ := b.Subscribe(context.Background(), "t")
	for i := 0; i < SubscriptionBuffer; i++ {
		if n := b.Publish("t", i); n != 1 {
			t.Fatalf("Publish %d: expected delivery", i)
		}
	}
	if n := b.Publish("t", "overflow"); n != 0 {
		t.Errorf("Expected overflow to be dropped, got %d deliveries", n)
	}
	if got := len(sub.Channel()); got != SubscriptionBuffer {
		t.Errorf("Expected %d buffered events, got %d", SubscriptionBuffer, got)
	}
}

func TestConcurrentPublish(t *testing.T) {
	b := NewBroker(nil)
	defer b.Shutdown()

	sub, _ := b.Subscribe(context.Background(), "t")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				b.Publish("t", j)
			}
		}()
	}
	wg.Wait()

	if got := len(sub.Channel()); got != 50 {
		t.Errorf("Expected 50 events, got %d", got)
	}
}

func TestShutdown(t *testing.T) {
	b := NewBroker(nil)
	sub, _ := b.Subscribe(context.Background(), "t")

	b.Shutdown()
	b.Shutdown()

	if _, ok := <-sub.Channel(); ok {
		t.Error("Expected channel closed by shutdown")
	}
	if _, err := b.Subscribe(context.Background(), "t"); !errors.Is(err, ErrBrokerClosed) {
		t.Errorf("Expected ErrBrokerClosed, got %v", err)
	}
	if n := b.Publish("t", "x"); n != 0 {
		t.Errorf("Expected no deliveries after shutdown, got %d", n)
	}
}
