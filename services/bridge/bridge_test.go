package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"rigcode-go/bus"
	"rigcode-go/types"
)

// lockedBuffer lets the test read while the bridge writes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForLines(t *testing.T, buf *lockedBuffer, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := strings.TrimSpace(buf.String())
		if s != "" {
			lines := strings.Split(s, "\n")
			if len(lines) >= n {
				return lines
			}
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d lines, have %q", n, buf.String())
	return nil
}

func TestForwardsFrameAsJSONLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.New(8)
	var out lockedBuffer
	svc := New(&out, bus.TopicSample)
	if err := svc.Start(ctx, b); err != nil {
		t.Fatal(err)
	}

	b.Publish(&bus.Message{Topic: bus.TopicSample, Payload: types.Frame{
		TMs: 12000, RPM: 3000, PressureKPa: 0.763, TempC: 24.75, Mosfet: 1,
	}})

	line := waitForLines(t, &out, 1)[0]
	var env struct {
		Topic   string      `json:"topic"`
		Payload types.Frame `json:"payload"`
	}
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		t.Fatalf("not a JSON line: %q: %v", line, err)
	}
	if env.Topic != "rig/sample" {
		t.Errorf("topic = %q", env.Topic)
	}
	if env.Payload.TMs != 12000 || env.Payload.RPM != 3000 || env.Payload.Mosfet != 1 {
		t.Errorf("payload = %+v", env.Payload)
	}
}

func TestForwardsMultipleTopics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.New(8)
	var out lockedBuffer
	svc := New(&out) // default set
	if err := svc.Start(ctx, b); err != nil {
		t.Fatal(err)
	}

	b.Publish(&bus.Message{Topic: bus.TopicState, Payload: types.StateEvent{Phase: "idle"}})
	b.Publish(&bus.Message{Topic: bus.TopicFault, Payload: types.FaultEvent{Code: "sensor_fault", Sensor: "thermocouple"}})

	lines := waitForLines(t, &out, 2)
	topics := map[string]bool{}
	for _, line := range lines {
		var env Envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			t.Fatalf("bad line %q: %v", line, err)
		}
		topics[env.Topic] = true
	}
	if !topics["rig/state"] || !topics["rig/fault"] {
		t.Errorf("topics seen: %v", topics)
	}
	if svc.Dropped() != 0 {
		t.Errorf("dropped = %d", svc.Dropped())
	}
}
