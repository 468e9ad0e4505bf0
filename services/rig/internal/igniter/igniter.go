// services/rig/internal/igniter/igniter.go
package igniter

import "time"

// Phase is the sequencer state. The drive output is asserted in exactly one
// phase; see Next.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseArmedWaiting
	PhaseArmedOn
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmedWaiting:
		return "armed_waiting"
	case PhaseArmedOn:
		return "armed_on"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Config times the sequence relative to the arm instant.
type Config struct {
	Delay time.Duration // arm → output on
	On    time.Duration // output on → done
}

// Next is the pure transition function: given the current phase and the time
// elapsed since arming, it returns the next phase and the required output
// level. Every phase except PhaseArmedOn maps to output off, which makes the
// fail-safe-off invariant a property of this single function.
func Next(p Phase, elapsed time.Duration, cfg Config) (Phase, bool) {
	switch p {
	case PhaseArmedWaiting:
		if elapsed >= cfg.Delay+cfg.On {
			return PhaseDone, false
		}
		if elapsed >= cfg.Delay {
			return PhaseArmedOn, true
		}
		return PhaseArmedWaiting, false
	case PhaseArmedOn:
		if elapsed >= cfg.Delay+cfg.On {
			return PhaseDone, false
		}
		return PhaseArmedOn, true
	default:
		// Idle and Done hold with the output off until an explicit Arm.
		return p, false
	}
}

// OutputPin is the drive line contract; any GPIO handle with Set satisfies it.
type OutputPin interface {
	Set(level bool)
}

// Sequencer binds the transition function to a physical output. All methods
// run on the rig loop; nothing here is called from interrupt context.
type Sequencer struct {
	cfg     Config
	out     OutputPin
	phase   Phase
	armedAt time.Time
	firing  bool
}

// New returns an idle sequencer and actively drives the output off
// (power-on default is fail-safe-off, not merely "unset").
func New(cfg Config, out OutputPin) *Sequencer {
	out.Set(false)
	return &Sequencer{cfg: cfg, out: out, phase: PhaseIdle}
}

// Arm starts a new sequence with now as the time origin. The output stays off
// until the delay expires.
func (s *Sequencer) Arm(now time.Time) {
	s.phase = PhaseArmedWaiting
	s.armedAt = now
	s.apply(false)
}

// Cancel forces the output off and parks the sequencer in PhaseDone, from
// which only a new Arm restarts it. Safe to call in any phase, repeatedly.
func (s *Sequencer) Cancel() {
	s.phase = PhaseDone
	s.apply(false)
}

// Step evaluates at most one transition. Call once per loop iteration; the
// loop period, not the timer resolution, bounds transition latency.
// Returns true when the phase changed.
func (s *Sequencer) Step(now time.Time) bool {
	next, on := Next(s.phase, now.Sub(s.armedAt), s.cfg)
	changed := next != s.phase
	s.phase = next
	s.apply(on)
	return changed
}

func (s *Sequencer) apply(on bool) {
	s.firing = on
	s.out.Set(on)
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase { return s.phase }

// Firing reports the commanded output level; true only in PhaseArmedOn.
func (s *Sequencer) Firing() bool { return s.firing }

// ArmedAt returns the time origin of the current sequence.
func (s *Sequencer) ArmedAt() time.Time { return s.armedAt }
