// bridge/bridge.go

// Package bridge streams bus events off the device as newline-delimited
// JSON, one envelope per line. A collector on the other end can persist
// frames without speaking the command protocol itself.
package bridge

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"rigcode-go/bus"
)

// Envelope is the wire record: the topic plus its payload, encoded as the
// payload type's own JSON shape.
type Envelope struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// Service forwards selected topics to one writer. Writes are serialised; the
// writer itself need not be concurrency-safe.
type Service struct {
	mu     sync.Mutex
	w      io.Writer
	topics []bus.Topic

	dropped uint32 // encode or write failures
}

// New creates a bridge for the given topics. With none given it forwards the
// full rig set.
func New(w io.Writer, topics ...bus.Topic) *Service {
	if len(topics) == 0 {
		topics = []bus.Topic{bus.TopicState, bus.TopicSample, bus.TopicFault}
	}
	return &Service{w: w, topics: topics}
}

// Dropped reports how many events failed to encode or write.
func (s *Service) Dropped() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Service) forward(msg *bus.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(Envelope{Topic: string(msg.Topic), Payload: msg.Payload})
	if err != nil {
		s.dropped++
		return
	}
	data = append(data, '\n')
	if _, err := s.w.Write(data); err != nil {
		s.dropped++
	}
}

func (s *Service) serviceLoop(ctx context.Context, b *bus.Bus) {
	subs := make([]*bus.Subscription, len(s.topics))
	for i, t := range s.topics {
		subs[i] = b.Subscribe(t)
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	// Merge the per-topic channels onto one loop.
	merged := make(chan *bus.Message, 8)
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *bus.Subscription) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-sub.Channel():
					if !ok {
						return
					}
					select {
					case merged <- msg:
					case <-ctx.Done():
						return
					}
				}
			}
		}(sub)
	}

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case msg := <-merged:
			s.forward(msg)
		}
	}
}

// Start runs the bridge until ctx is cancelled.
func (s *Service) Start(ctx context.Context, b *bus.Bus) error {
	go s.serviceLoop(ctx, b)
	return nil
}
