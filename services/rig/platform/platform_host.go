// services/rig/internal/platform/platform_host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"io"
	"sync"
	"time"

	"rigcode-go/bus"
	"rigcode-go/services/rig"
	"rigcode-go/services/rig/internal/pulse"
	"rigcode-go/types"
	"rigcode-go/x/timex"
)

// ----------------------------- serial (host) ---------------------------------

// SimPort is an in-memory command link for the simulator and host tests.
// Push feeds the rig's receive side; Write goes to the supplied writer.
type SimPort struct {
	mu  sync.Mutex
	in  []byte
	out io.Writer
}

func NewSimPort(out io.Writer) *SimPort { return &SimPort{out: out} }

// Push appends bytes to the receive queue, as the wire would.
func (p *SimPort) Push(b []byte) {
	p.mu.Lock()
	p.in = append(p.in, b...)
	p.mu.Unlock()
}

func (p *SimPort) Buffered() int {
	p.mu.Lock()
	n := len(p.in)
	p.mu.Unlock()
	return n
}

func (p *SimPort) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.in) == 0 {
		return 0, io.EOF
	}
	b := p.in[0]
	p.in = p.in[1:]
	return b, nil
}

func (p *SimPort) Write(b []byte) (int, error) { return p.out.Write(b) }

// ----------------------------- GPIO (host) -----------------------------------

// SimPin records the driven level of an output.
type SimPin struct {
	mu    sync.Mutex
	level bool
}

func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *SimPin) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// ----------------------------- sensors (host) --------------------------------

// SimADC returns a settable raw count.
type SimADC struct {
	mu  sync.Mutex
	raw uint16
}

func (a *SimADC) SetRaw(raw uint16) {
	a.mu.Lock()
	a.raw = raw
	a.mu.Unlock()
}

func (a *SimADC) Get() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.raw
}

// SimThermo returns a settable temperature, or an open-circuit fault.
type SimThermo struct {
	mu   sync.Mutex
	c    float32
	open bool
	err  error // reported while open
}

func NewSimThermo(c float32, openErr error) *SimThermo {
	return &SimThermo{c: c, err: openErr}
}

func (s *SimThermo) SetCelsius(c float32) {
	s.mu.Lock()
	s.c = c
	s.mu.Unlock()
}

func (s *SimThermo) SetOpen(open bool) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
}

func (s *SimThermo) ReadCelsius() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return 0, s.err
	}
	return s.c, nil
}

// ----------------------------- board -----------------------------------------

// Board bundles the simulated instruments behind the same surface the RP2
// build provides, so cmd mains stay platform-agnostic.
type Board struct {
	Port   *SimPort
	Drive  *SimPin
	ADC    *SimADC
	Thermo *SimThermo

	mu      sync.Mutex
	counter *pulse.Counter
}

// NewBoard creates a simulated board writing responses to out.
func NewBoard(_ types.Config, out io.Writer, openErr error) *Board {
	return &Board{
		Port:   NewSimPort(out),
		Drive:  &SimPin{},
		ADC:    &SimADC{},
		Thermo: NewSimThermo(25.0, openErr),
	}
}

// Deps adapts the board to the controller's injection points.
func (b *Board) Deps(ev *bus.Bus, now func() time.Time) rig.Deps {
	return rig.Deps{
		Port:   b.Port,
		Drive:  b.Drive,
		ADC:    b.ADC,
		Temp:   b.Thermo,
		Now:    now,
		Events: ev,
	}
}

// AttachTacho remembers the counter so Pulse can feed it.
func (b *Board) AttachTacho(c *pulse.Counter) error {
	b.mu.Lock()
	b.counter = c
	b.mu.Unlock()
	return nil
}

// Pulse injects one tachometer edge, timestamped now. The simulator's shaft
// generator calls this.
func (b *Board) Pulse() {
	b.mu.Lock()
	c := b.counter
	b.mu.Unlock()
	if c != nil {
		c.OnEdge(timex.Micros(time.Now()))
	}
}
