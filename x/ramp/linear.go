package ramp

import (
	"time"

	"rigcode-go/x/mathx"
)

// Step sets the new logical level in [0..top].
type Step func(level uint32)

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// Linear runs a synchronous (caller-driven) integer ramp from cur to target.
// Call it from a goroutine and provide Tick to handle timing & cancellation.
// steps==0 or duration==0 snaps to target.
func Linear(cur, target, top uint32, duration time.Duration, steps uint32, tick Tick, set Step) {
	if steps == 0 || duration == 0 {
		set(mathx.Min(target, top))
		return
	}
	d := int64(target) - int64(cur)
	st := int64(steps)
	acc := int64(0)
	cur64 := int64(cur)
	stepDur := duration / time.Duration(steps)
	if stepDur <= 0 {
		stepDur = time.Millisecond
	}

	for i := uint32(1); i < steps; i++ {
		if !tick(stepDur) {
			return
		}
		acc += d
		inc := acc / st
		if inc != 0 {
			acc -= inc * st
			cur64 = mathx.Clamp(cur64+inc, 0, int64(top))
			set(uint32(cur64))
		}
	}
	set(mathx.Min(target, top))
}
