package client

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigcode-go/errcode"
)

// scriptTransport answers each written command line from a script map,
// mimicking the device's strict one-response-per-command behaviour.
type scriptTransport struct {
	mu     sync.Mutex
	script map[string]string
	out    []byte
	closed bool
	sent   []string
}

func newScriptTransport(script map[string]string) *scriptTransport {
	return &scriptTransport{script: script}
}

func (t *scriptTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, errors.New("closed")
	}
	cmd := string(p[:len(p)-1]) // strip the trailing \n
	t.sent = append(t.sent, cmd)
	if resp, ok := t.script[cmd]; ok {
		t.out = append(t.out, resp...)
	}
	return len(p), nil
}

func (t *scriptTransport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, errors.New("closed")
	}
	if len(t.out) == 0 {
		return 0, nil // like a serial read timeout
	}
	n := copy(p, t.out)
	t.out = t.out[n:]
	return n, nil
}

func (t *scriptTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

func TestRequestOKLine(t *testing.T) {
	s := NewSession(newScriptTransport(map[string]string{
		"PING": "OK PONG\r\n",
	}), time.Second)
	line, err := s.Request("ping") // lower case is normalised before send
	require.NoError(t, err)
	assert.Equal(t, "OK PONG", line)
}

func TestRequestERRLine(t *testing.T) {
	s := NewSession(newScriptTransport(map[string]string{
		"FOO": "ERR UNKNOWN\r\n",
	}), time.Second)
	_, err := s.Request("FOO")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR UNKNOWN")
}

func TestRequestSkipsStrayLines(t *testing.T) {
	s := NewSession(newScriptTransport(map[string]string{
		"READ_RPM": "OK READY\r\nOK RPM 1000 3000\r\n",
	}), time.Second)
	// A late boot banner is itself an OK line; the first OK wins here and
	// that is the documented reason Dial flushes the input buffer first.
	line, err := s.Request("READ_RPM")
	require.NoError(t, err)
	assert.Equal(t, "OK READY", line)
}

func TestRequestTimeout(t *testing.T) {
	s := NewSession(newScriptTransport(nil), 30*time.Millisecond)
	_, err := s.Request("PING")
	require.Error(t, err)
	assert.Equal(t, errcode.Timeout, errcode.Of(err))
}

func TestRequestAfterClose(t *testing.T) {
	s := NewSession(newScriptTransport(nil), time.Second)
	require.NoError(t, s.Close())
	_, err := s.Request("PING")
	assert.Equal(t, errcode.PortClosed, errcode.Of(err))
	require.NoError(t, s.Close(), "second close is a no-op")
}

func TestReadAll(t *testing.T) {
	s := NewSession(newScriptTransport(map[string]string{
		"READ_ALL": "OK DATA 12000 3000 0.763 24.750 1\r\n",
	}), time.Second)
	f, err := s.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, int64(12000), f.TMs)
	assert.Equal(t, uint32(3000), f.RPM)
	assert.InDelta(t, 0.763, float64(f.PressureKPa), 1e-6)
	assert.InDelta(t, 24.750, float64(f.TempC), 1e-6)
	assert.Equal(t, uint8(1), f.Mosfet)
}

func TestStartStopPing(t *testing.T) {
	tr := newScriptTransport(map[string]string{
		"PING":  "OK PONG\r\n",
		"START": "OK START\r\n",
		"STOP":  "OK STOP\r\n",
	})
	s := NewSession(tr, time.Second)
	require.NoError(t, s.Ping())
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
	assert.Equal(t, []string{"PING", "START", "STOP"}, tr.sent)
}

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame("OK DATA 5000 1500 0.763 24.750 0")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), f.TMs)
	assert.Equal(t, uint32(1500), f.RPM)
	assert.Equal(t, uint8(0), f.Mosfet)
}

func TestParseFrameRejectsMalformed(t *testing.T) {
	for _, line := range []string{
		"",
		"OK PONG",
		"OK DATA 1 2 3 4",       // missing mosfet
		"OK DATA 1 2 3 4 5 6",   // extra field
		"OK DATA x 2 3.0 4.0 1", // bad t_ms
		"OK DATA 1 2 3.0 4.0 7", // mosfet out of range
		"ERR UNKNOWN",
	} {
		_, err := ParseFrame(line)
		assert.Error(t, err, "line %q", line)
		assert.Equal(t, errcode.BadResponse, errcode.Of(err), "line %q", line)
	}
}

func TestParseRPMAndPT(t *testing.T) {
	tms, rpm, err := ParseRPM("OK RPM 1000 3000")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), tms)
	assert.Equal(t, uint32(3000), rpm)

	tms, kpa, temp, err := ParsePT("OK PT 250 0.763 -5.250")
	require.NoError(t, err)
	assert.Equal(t, int64(250), tms)
	assert.InDelta(t, 0.763, float64(kpa), 1e-6)
	assert.InDelta(t, -5.25, float64(temp), 1e-6)
}
