// bus/cmd/selftest/main.go

// On-device self-test for the event bus: flash it to a board (or run it on
// the host) and watch the console for PASS/FAIL lines.
package main

import (
	"time"

	"rigcode-go/bus"
)

var failures int

func check(name string, ok bool) {
	if ok {
		println("PASS", name)
	} else {
		failures++
		println("FAIL", name)
	}
}

func recvNow(sub *bus.Subscription) (*bus.Message, bool) {
	select {
	case m, ok := <-sub.Channel():
		return m, ok
	default:
		return nil, false
	}
}

func main() {
	time.Sleep(3 * time.Second)
	println("[selftest] bus checks starting")

	// Basic delivery.
	b := bus.New(4)
	sub := b.Subscribe(bus.TopicState)
	b.Publish(&bus.Message{Topic: bus.TopicState, Payload: "hello"})
	m, ok := recvNow(sub)
	check("deliver", ok && m.Payload == "hello")

	// Topics are independent.
	other := b.Subscribe(bus.TopicFault)
	b.Publish(&bus.Message{Topic: bus.TopicState, Payload: "again"})
	_, leaked := recvNow(other)
	check("isolation", !leaked)
	_, ok = recvNow(sub)
	check("isolation_delivery", ok)

	// Retained replay for late subscribers.
	b.Publish(&bus.Message{Topic: bus.TopicSample, Payload: 42, Retained: true})
	late := b.Subscribe(bus.TopicSample)
	m, ok = recvNow(late)
	check("retained_replay", ok && m.Payload == 42)

	// Retained nil clears the slot.
	b.Publish(&bus.Message{Topic: bus.TopicSample, Payload: nil, Retained: true})
	cleared := b.Subscribe(bus.TopicSample)
	_, stale := recvNow(cleared)
	check("retained_clear", !stale)

	// Full queue drops the oldest, never blocks the publisher.
	small := bus.New(2)
	slow := small.Subscribe(bus.TopicState)
	for i := 0; i < 5; i++ {
		small.Publish(&bus.Message{Topic: bus.TopicState, Payload: i})
	}
	m, ok = recvNow(slow)
	check("drop_oldest", ok && m.Payload == 3)
	m, ok = recvNow(slow)
	check("drop_oldest_tail", ok && m.Payload == 4)

	// Unsubscribe closes the channel.
	sub.Unsubscribe()
	_, open := <-sub.Channel()
	check("unsubscribe_closes", !open)

	if failures == 0 {
		println("[selftest] all checks passed")
	} else {
		println("[selftest] FAILURES:", failures)
	}
	for {
		time.Sleep(time.Hour)
	}
}
