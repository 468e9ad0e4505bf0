// Package client talks to the rig controller over its serial command link.
// A Session holds one persistent connection: boards that reset on port open
// cannot be polled through open/close cycles.
package client

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"rigcode-go/errcode"
	"rigcode-go/types"
)

// transport is the byte link under a Session. Reads may return (0, nil) when
// nothing arrived within the link's own read timeout.
type transport interface {
	io.ReadWriter
	Close() error
}

// Session is a synchronous request/response client. Safe for concurrent use;
// commands are serialised on one lock because the device answers in order.
type Session struct {
	mu      sync.Mutex
	t       transport
	timeout time.Duration
}

// NewSession wraps an open transport. Tests inject in-memory transports here.
func NewSession(t transport, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Session{t: t, timeout: timeout}
}

// Dial opens the configured serial port and waits out the boot delay.
func Dial(cfg Config) (*Session, error) {
	port, err := serial.Open(cfg.Serial.Port, &serial.Mode{BaudRate: cfg.Serial.Baud})
	if err != nil {
		return nil, &errcode.E{C: errcode.PortClosed, Op: "client.Dial", Msg: cfg.Serial.Port, Err: err}
	}
	if err := port.SetReadTimeout(50 * time.Millisecond); err != nil {
		port.Close()
		return nil, &errcode.E{C: errcode.PortClosed, Op: "client.Dial", Msg: "set read timeout", Err: err}
	}
	if cfg.Serial.BootDelay > 0 {
		time.Sleep(cfg.Serial.BootDelay)
	}
	// Discard the boot banner and anything else buffered before our first
	// command, so responses pair with requests.
	_ = port.ResetInputBuffer()
	glog.V(1).Infof("connected to %s @ %d", cfg.Serial.Port, cfg.Serial.Baud)
	return NewSession(port, cfg.Request.Timeout), nil
}

// Close releases the underlying port. Further requests fail with PortClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return nil
	}
	err := s.t.Close()
	s.t = nil
	return err
}

// Request sends one command and returns the device's OK response line.
// An ERR response or a timeout is returned as an error.
func (s *Session) Request(cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.t == nil {
		return "", &errcode.E{C: errcode.PortClosed, Op: "client.Request", Msg: cmd}
	}

	cmd = strings.ToUpper(strings.TrimSpace(cmd))
	glog.V(2).Infof("-> %s", cmd)
	if _, err := s.t.Write([]byte(cmd + "\n")); err != nil {
		return "", &errcode.E{C: errcode.PortClosed, Op: "client.Request", Msg: cmd, Err: err}
	}

	deadline := time.Now().Add(s.timeout)
	var line []byte
	buf := make([]byte, 1)
	for time.Now().Before(deadline) {
		n, err := s.t.Read(buf)
		if err != nil {
			return "", &errcode.E{C: errcode.PortClosed, Op: "client.Request", Msg: cmd, Err: err}
		}
		if n == 0 {
			continue // link read timeout, poll the deadline
		}
		c := buf[0]
		if c == '\r' {
			continue
		}
		if c != '\n' {
			line = append(line, c)
			continue
		}
		resp := strings.TrimSpace(string(line))
		line = line[:0]
		if resp == "" {
			continue
		}
		glog.V(2).Infof("<- %s", resp)
		upper := strings.ToUpper(resp)
		switch {
		case strings.HasPrefix(upper, "ERR"):
			return "", &errcode.E{C: errcode.Error, Op: "client.Request", Msg: resp}
		case strings.HasPrefix(upper, "OK"):
			return resp, nil
		}
		// Stray line (late banner, debug noise): keep waiting.
	}
	return "", &errcode.E{C: errcode.Timeout, Op: "client.Request", Msg: cmd}
}

// Ping checks link liveness.
func (s *Session) Ping() error {
	_, err := s.Request("PING")
	return err
}

// Start arms the ignition sequence and resets the device's time origin.
func (s *Session) Start() error {
	_, err := s.Request("START")
	return err
}

// Stop cancels the sequence and forces the actuator off.
func (s *Session) Stop() error {
	_, err := s.Request("STOP")
	return err
}

// ReadAll polls one combined telemetry frame.
func (s *Session) ReadAll() (types.Frame, error) {
	line, err := s.Request("READ_ALL")
	if err != nil {
		return types.Frame{}, err
	}
	return ParseFrame(line)
}

// ReadRPM polls the rotation estimate.
func (s *Session) ReadRPM() (tms int64, rpm uint32, err error) {
	line, err := s.Request("READ_RPM")
	if err != nil {
		return 0, 0, err
	}
	return ParseRPM(line)
}

// ReadPT polls pressure and temperature.
func (s *Session) ReadPT() (tms int64, kpa, temp float32, err error) {
	line, err := s.Request("READ_PT")
	if err != nil {
		return 0, 0, 0, err
	}
	return ParsePT(line)
}
