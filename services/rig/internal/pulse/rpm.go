// services/rig/internal/pulse/rpm.go
package pulse

// Estimator derives revolutions per minute from pulse-count deltas between
// invocations. It owns its baseline; only the rig loop calls it.
type Estimator struct {
	counter      *Counter
	pulsesPerRev uint32

	primed    bool
	prevCount uint32
	prevUS    int64
	lastRPM   uint32
}

// NewEstimator wires an estimator to a counter. pulsesPerRev == 0 is coerced
// to 1 so a bad calibration cannot divide by zero.
func NewEstimator(c *Counter, pulsesPerRev uint32) *Estimator {
	if pulsesPerRev == 0 {
		pulsesPerRev = 1
	}
	return &Estimator{counter: c, pulsesPerRev: pulsesPerRev}
}

// Reset drops the baseline. The next Estimate call re-primes and reports 0;
// called when a sequence is armed so RPM windows start fresh.
func (e *Estimator) Reset() {
	e.primed = false
	e.lastRPM = 0
}

// Estimate snapshots the counter and the supplied clock and returns the rate
// over the window since the previous call. Integer truncation toward zero is
// expected. The counter may wrap between calls; uint32 subtraction still
// yields the correct delta.
func (e *Estimator) Estimate(nowUS int64) uint32 {
	count, _ := e.counter.Snapshot()

	if !e.primed {
		e.prevCount, e.prevUS = count, nowUS
		e.primed = true
		e.lastRPM = 0
		return 0
	}

	deltaPulses := count - e.prevCount
	deltaUS := nowUS - e.prevUS
	e.prevCount, e.prevUS = count, nowUS

	if deltaUS <= 0 {
		e.lastRPM = 0
		return 0
	}
	// Pulses/µs → rev/min: ×60e6, ÷pulses-per-rev. 64-bit intermediates keep
	// tens of thousands of pulses over tens of seconds well clear of overflow.
	e.lastRPM = uint32(uint64(deltaPulses) * 60_000_000 / (uint64(e.pulsesPerRev) * uint64(deltaUS)))
	return e.lastRPM
}

// LastRPM returns the most recently computed rate without advancing the
// baseline.
func (e *Estimator) LastRPM() uint32 { return e.lastRPM }
