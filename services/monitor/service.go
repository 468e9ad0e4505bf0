// Package monitor tails the rig's bus topics and prints a one-line status
// for each event. It is the only consumer of the observability bus on the
// simulator; the firmware build can run it too when a debug console exists.
package monitor

import (
	"context"

	"rigcode-go/bus"
	"rigcode-go/types"
	"rigcode-go/x/conv"
)

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, b *bus.Bus) {
	stateSub := b.Subscribe(bus.TopicState)
	sampleSub := b.Subscribe(bus.TopicSample)
	faultSub := b.Subscribe(bus.TopicFault)
	defer stateSub.Unsubscribe()
	defer sampleSub.Unsubscribe()
	defer faultSub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			println("Info: monitor service stopping")
			return
		case msg := <-stateSub.Channel():
			if ev, ok := msg.Payload.(types.StateEvent); ok {
				println("Info: state", ev.Phase, "t_ms", ev.TMs, "firing", ev.Firing)
			}
		case msg := <-sampleSub.Channel():
			if f, ok := msg.Payload.(types.Frame); ok {
				println("Info: sample t_ms", f.TMs,
					"rpm", f.RPM,
					"kPa", fixed3(f.PressureKPa),
					"degC", fixed3(f.TempC),
					"mosfet", f.Mosfet)
			}
		case msg := <-faultSub.Channel():
			if ev, ok := msg.Payload.(types.FaultEvent); ok {
				println("Warn: fault", ev.Code, "sensor", ev.Sensor, "t_ms", ev.TMs)
			}
		}
	}
}

// fixed3 formats without pulling fmt into the firmware image.
func fixed3(v float32) string {
	return string(conv.AppendFixed3(make([]byte, 0, 16), v))
}

// Start runs the monitor until ctx is cancelled.
func (s *Service) Start(ctx context.Context, b *bus.Bus) error {
	go s.serviceLoop(ctx, b)
	return nil
}
