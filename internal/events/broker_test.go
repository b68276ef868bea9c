package events

import (
	"context"
	"testing"
	"time"
)

func TestSubscribeReceivesMatchingTopic(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicHabits)
	defer sub.Cancel()

	b.Publish(TopicHabits)

	select {
	case ev := <-sub.Events():
		if ev.Topic != TopicHabits {
			t.Errorf("Expected topic %q, got %q", TopicHabits, ev.Topic)
		}
		if ev.Seq == 0 {
			t.Error("Expected non-zero sequence number")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestSubscribeFiltersOtherTopics(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicExpenses)
	defer sub.Cancel()

	b.Publish(TopicHabits)

	select {
	case ev := <-sub.Events():
		t.Fatalf("Expected no delivery, got event for %q", ev.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAllTopics(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()
	defer sub.Cancel()

	b.Publish(TopicHabits)
	b.Publish(TopicExpenses)

	var got []Topic
	for len(got) < 2 {
		select {
		case ev := <-sub.Events():
			got = append(got, ev.Topic)
		case <-time.After(time.Second):
			t.Fatalf("Timed out, received %d of 2 events", len(got))
		}
	}

	if got[0] != TopicHabits || got[1] != TopicExpenses {
		t.Errorf("Expected [habits expenses] in order, got %v", got)
	}
}

func TestSequenceIsMonotonic(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicBMI)
	defer sub.Cancel()

	for i := 0; i < 5; i++ {
		b.Publish(TopicBMI)
	}

	var last int64
	for i := 0; i < 5; i++ {
		ev := <-sub.Events()
		if ev.Seq <= last {
			t.Errorf("Sequence not increasing: %d after %d", ev.Seq, last)
		}
		last = ev.Seq
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicHabits)

	sub.Cancel()
	sub.Cancel() // must be safe to call twice

	// Publishing after cancel must not panic on a closed channel.
	b.Publish(TopicHabits)

	if _, ok := <-sub.Events(); ok {
		t.Error("Expected closed channel after Cancel")
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicHabits)
	defer sub.Cancel()

	// Overflow the channel buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(TopicHabits)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestNilPublisherHelper(t *testing.T) {
	// Must not panic.
	Publish(nil, TopicHabits)
}

func TestWatchRedeliversOnChange(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(TopicTasks)
	defer sub.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	results := Watch(ctx, sub, func(context.Context) (int, error) {
		calls++
		return calls, nil
	})

	// Initial evaluation happens without any event.
	select {
	case v := <-results:
		if v != 1 {
			t.Errorf("Expected initial result 1, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for initial result")
	}

	b.Publish(TopicTasks)

	select {
	case v := <-results:
		if v != 2 {
			t.Errorf("Expected re-evaluated result 2, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for re-delivery")
	}

	cancel()
	for range results {
	}
}
