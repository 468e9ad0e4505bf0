// services/rig/internal/pulse/pulse.go
package pulse

import "sync"

// Counter tallies debounced sensor edges. OnEdge is the only writer and runs
// in interrupt context; Snapshot is the only foreground reader. The two fields
// form one cell: count and last-edge timestamp must never be observed torn,
// so both sides take the same lock (the host-target equivalent of masking
// interrupts around the copy).
type Counter struct {
	mu         sync.Mutex
	debounceUS int64
	count      uint32 // wraps at 2^32, expected behaviour
	lastEdgeUS int64
	seen       bool
}

// NewCounter returns a counter with the given debounce guard in microseconds.
// Edges closer together than the guard are dropped as electrical noise.
func NewCounter(debounceUS int64) *Counter {
	return &Counter{debounceUS: debounceUS}
}

// OnEdge records one electrical edge at nowUS. It is the ISR path: bounded
// work, no allocation. Returns whether the edge was counted, which the
// foreground never needs but tests do.
func (c *Counter) OnEdge(nowUS int64) bool {
	c.mu.Lock()
	if c.seen && nowUS-c.lastEdgeUS <= c.debounceUS {
		c.mu.Unlock()
		return false
	}
	c.count++
	c.lastEdgeUS = nowUS
	c.seen = true
	c.mu.Unlock()
	return true
}

// Snapshot returns a consistent copy of the count and the timestamp of the
// last counted edge.
func (c *Counter) Snapshot() (count uint32, lastEdgeUS int64) {
	c.mu.Lock()
	count, lastEdgeUS = c.count, c.lastEdgeUS
	c.mu.Unlock()
	return
}
