// bus.go
package bus

import (
	"sync"
)

// Topic is a slash-free path string, e.g. "rig/state". Matching is exact;
// the rig's topic set is small and known at compile time, so no wildcard
// machinery is carried.
type Topic string

// Rig topics.
const (
	TopicState  Topic = "rig/state"
	TopicSample Topic = "rig/sample"
	TopicFault  Topic = "rig/fault"
)

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// Subscription receives messages for one topic.
type Subscription struct {
	topic Topic
	ch    chan *Message
	bus   *Bus
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.bus.unsubscribe(s) }

type entry struct {
	subs     []*Subscription
	retained *Message
}

// Bus is a small in-process pub/sub hub. Publishing never blocks: a full
// subscriber queue drops its oldest message.
type Bus struct {
	mu     sync.Mutex
	topics map[Topic]*entry
	qLen   int
}

// New creates a bus with the given per-subscription queue length.
func New(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	return &Bus{topics: map[Topic]*entry{}, qLen: queueLen}
}

func (b *Bus) topic(t Topic) *entry {
	e, ok := b.topics[t]
	if !ok {
		e = &entry{}
		b.topics[t] = e
	}
	return e
}

// Subscribe registers a subscription. A retained message on the topic is
// delivered immediately.
func (b *Bus) Subscribe(t Topic) *Subscription {
	sub := &Subscription{topic: t, ch: make(chan *Message, b.qLen), bus: b}

	b.mu.Lock()
	e := b.topic(t)
	e.subs = append(e.subs, sub)
	if e.retained != nil {
		sub.ch <- e.retained
	}
	b.mu.Unlock()
	return sub
}

// Publish delivers msg to all subscribers of its topic and stores it when
// retained (a retained nil payload clears the slot).
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.topics[msg.Topic]
	if !ok {
		if !msg.Retained {
			return
		}
		e = b.topic(msg.Topic)
	}

	for _, sub := range e.subs {
		select {
		case sub.ch <- msg:
		default:
			// drop oldest if queue full
			<-sub.ch
			sub.ch <- msg
		}
	}

	if msg.Retained {
		if msg.Payload == nil {
			e.retained = nil
		} else {
			e.retained = msg
		}
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	e, ok := b.topics[sub.topic]
	if ok {
		for i, s := range e.subs {
			if s == sub {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				break
			}
		}
		if len(e.subs) == 0 && e.retained == nil {
			delete(b.topics, sub.topic)
		}
	}
	b.mu.Unlock()
	close(sub.ch)
}
