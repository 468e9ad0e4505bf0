// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Errorf("expected payload %v, got %v", want, got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message %v", got.Payload)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := New(4)
	sub := b.Subscribe(TopicState)

	b.Publish(&Message{Topic: TopicState, Payload: "hello"})
	expectPayload(t, sub, "hello")

	// Different topic does not leak across.
	b.Publish(&Message{Topic: TopicSample, Payload: "other"})
	expectNoMessage(t, sub)
}

func TestRetainedMessage(t *testing.T) {
	b := New(2)
	b.Publish(&Message{Topic: TopicState, Payload: "persist", Retained: true})

	sub := b.Subscribe(TopicState)
	expectPayload(t, sub, "persist")

	// Clearing the retained slot stops replay for later subscribers.
	b.Publish(&Message{Topic: TopicState, Payload: nil, Retained: true})
	late := b.Subscribe(TopicState)
	expectNoMessage(t, late)
}

func TestFullQueueDropsOldest(t *testing.T) {
	b := New(2)
	sub := b.Subscribe(TopicSample)

	for i := 0; i < 5; i++ {
		b.Publish(&Message{Topic: TopicSample, Payload: i})
	}

	// Queue length 2: only the two newest survive.
	expectPayload(t, sub, 3)
	expectPayload(t, sub, 4)
	expectNoMessage(t, sub)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New(4)
	sub := b.Subscribe(TopicFault)
	sub.Unsubscribe()

	if _, ok := <-sub.Channel(); ok {
		t.Fatal("expected closed channel after Unsubscribe")
	}

	// Publishing after the last subscriber left must not panic.
	b.Publish(&Message{Topic: TopicFault, Payload: "late"})
}
