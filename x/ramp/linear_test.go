package ramp

import (
	"testing"
	"time"
)

func run(cur, target, top uint32, duration time.Duration, steps uint32) []uint32 {
	var levels []uint32
	Linear(cur, target, top, duration, steps,
		func(time.Duration) bool { return true },
		func(level uint32) { levels = append(levels, level) })
	return levels
}

func TestSnapWhenNoSteps(t *testing.T) {
	levels := run(0, 3000, 10000, time.Second, 0)
	if len(levels) != 1 || levels[0] != 3000 {
		t.Fatalf("levels = %v", levels)
	}
}

func TestMonotonicUpAndLandsOnTarget(t *testing.T) {
	levels := run(0, 3000, 10000, time.Second, 10)
	if len(levels) == 0 {
		t.Fatal("no levels set")
	}
	prev := uint32(0)
	for _, l := range levels {
		if l < prev {
			t.Fatalf("ramp went backwards: %v", levels)
		}
		prev = l
	}
	if levels[len(levels)-1] != 3000 {
		t.Fatalf("final level = %d", levels[len(levels)-1])
	}
}

func TestRampDown(t *testing.T) {
	levels := run(3000, 0, 10000, time.Second, 10)
	if levels[len(levels)-1] != 0 {
		t.Fatalf("final level = %d", levels[len(levels)-1])
	}
}

func TestTopClampsTarget(t *testing.T) {
	levels := run(0, 9000, 5000, time.Second, 10)
	for _, l := range levels {
		if l > 5000 {
			t.Fatalf("level %d above top", l)
		}
	}
	if levels[len(levels)-1] != 5000 {
		t.Fatalf("final level = %d", levels[len(levels)-1])
	}
}

func TestCancelStopsEarly(t *testing.T) {
	calls := 0
	var levels []uint32
	Linear(0, 1000, 10000, time.Second, 10,
		func(time.Duration) bool { calls++; return calls < 3 },
		func(level uint32) { levels = append(levels, level) })
	for _, l := range levels {
		if l == 1000 {
			t.Fatal("cancelled ramp must not reach target")
		}
	}
}
