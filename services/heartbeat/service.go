package heartbeat

import (
	"context"
	"time"

	"rigcode-go/bus"
	"rigcode-go/types"
)

type Service struct {
	Interval time.Duration // 0 means 1s
}

func (s *Service) serviceLoop(ctx context.Context, b *bus.Bus) {
	stateSub := b.Subscribe(bus.TopicState)
	defer stateSub.Unsubscribe()

	iv := s.Interval
	if iv <= 0 {
		iv = time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	phase := "idle"

	// loop until context is cancelled, respond to tick and state changes
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			println("Info:", t.Format("15:04:05"), "Heartbeat phase", phase)
		case msg := <-stateSub.Channel():
			if ev, ok := msg.Payload.(types.StateEvent); ok {
				phase = ev.Phase
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, b *bus.Bus) error {
	go s.serviceLoop(ctx, b)
	return nil
}
