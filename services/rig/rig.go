// services/rig/rig.go

// Package rig is the experiment controller: one cooperative loop that pumps
// the serial link, interprets command lines, and advances the igniter
// sequencer. The pulse-counter ISR is the only concurrent writer anywhere in
// the service; everything else runs on the loop.
package rig

import (
	"context"
	"time"

	"rigcode-go/bus"
	"rigcode-go/errcode"
	"rigcode-go/services/rig/internal/igniter"
	"rigcode-go/services/rig/internal/lineio"
	"rigcode-go/services/rig/internal/pulse"
	"rigcode-go/services/rig/internal/sensors"
	"rigcode-go/types"
	"rigcode-go/x/timex"
)

// Port is the command-link transport contract. machine.UART satisfies it
// directly; uartx and the host simulator are adapted in internal/platform.
// Reads must never block: Buffered gates every ReadByte.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Deps injects every hardware touchpoint, keeping the service testable
// without a board.
type Deps struct {
	Port   Port
	Drive  igniter.OutputPin  // actuator MOSFET gate
	ADC    sensors.ADC        // pressure transducer input
	Temp   sensors.TempSensor // thermocouple transaction
	Now    func() time.Time   // defaults to time.Now
	Events *bus.Bus           // optional observability bus
}

// Rig consolidates all mutable controller state into one owned object
// threaded through the loop.
type Rig struct {
	cfg  types.Config
	port Port
	ev   *bus.Bus
	now  func() time.Time

	line     *lineio.Buffer
	counter  *pulse.Counter
	est      *pulse.Estimator
	seq      *igniter.Sequencer
	pressure *sensors.PressureReader
	thermo   *sensors.ThermoReader

	// Experiment time origin: boot time until the first START, then the
	// instant the latest sequence was armed.
	origin time.Time

	scratch []byte // response build buffer, reused every reply
}

// New wires a controller. The actuator output is driven off immediately.
func New(cfg types.Config, d Deps) *Rig {
	if d.Now == nil {
		d.Now = time.Now
	}
	r := &Rig{
		cfg:     cfg,
		port:    d.Port,
		ev:      d.Events,
		now:     d.Now,
		line:    lineio.New(cfg.LineCap),
		counter: pulse.NewCounter(cfg.Tacho.DebounceUS),
		seq: igniter.New(igniter.Config{
			Delay: time.Duration(cfg.Igniter.DelayMS) * time.Millisecond,
			On:    time.Duration(cfg.Igniter.OnMS) * time.Millisecond,
		}, d.Drive),
		pressure: sensors.NewPressureReader(d.ADC, cfg.Pressure),
		thermo:   sensors.NewThermoReader(d.Temp),
		scratch:  make([]byte, 0, 96),
	}
	r.est = pulse.NewEstimator(r.counter, cfg.Tacho.PulsesPerRev)
	r.origin = d.Now()
	return r
}

// Counter exposes the pulse counter so the platform layer can attach its
// edge interrupt.
func (r *Rig) Counter() *pulse.Counter { return r.counter }

// Announce emits the one-time boot banner. Nothing else is ever sent
// unsolicited.
func (r *Rig) Announce() {
	_, _ = r.port.Write([]byte("OK READY\r\n"))
	r.publishState()
}

// Tick runs one loop iteration: drain available transport bytes, dispatch any
// completed command lines, then evaluate at most one sequencer transition.
func (r *Rig) Tick() {
	for r.port.Buffered() > 0 {
		c, err := r.port.ReadByte()
		if err != nil {
			break
		}
		if line, ok := r.line.Feed(c); ok {
			r.exec(line)
		}
	}
	if r.seq.Step(r.now()) {
		r.publishState()
	}
}

// Run executes the cooperative loop until ctx is cancelled. On exit the
// sequence is cancelled so the output cannot be left asserted.
func (r *Rig) Run(ctx context.Context) {
	r.Announce()
	for {
		select {
		case <-ctx.Done():
			r.seq.Cancel()
			r.publishState()
			return
		default:
		}
		r.Tick()
		// Yield briefly; the loop still iterates far faster than the
		// millisecond timing the sequencer needs.
		time.Sleep(200 * time.Microsecond)
	}
}

// elapsedMs is the t_ms of every response line.
func (r *Rig) elapsedMs(now time.Time) int64 { return timex.ElapsedMs(r.origin, now) }

func (r *Rig) publishState() {
	if r.ev == nil {
		return
	}
	now := r.now()
	r.ev.Publish(&bus.Message{
		Topic: bus.TopicState,
		Payload: types.StateEvent{
			Phase:  r.seq.Phase().String(),
			TMs:    r.elapsedMs(now),
			Firing: r.seq.Firing(),
		},
		Retained: true,
	})
}

func (r *Rig) publishSample(f types.Frame) {
	if r.ev == nil {
		return
	}
	r.ev.Publish(&bus.Message{Topic: bus.TopicSample, Payload: f})
}

func (r *Rig) publishFault(sensor string, now time.Time) {
	if r.ev == nil {
		return
	}
	r.ev.Publish(&bus.Message{
		Topic: bus.TopicFault,
		Payload: types.FaultEvent{
			Code:   string(errcode.SensorFault),
			Sensor: sensor,
			TMs:    r.elapsedMs(now),
		},
	})
}
