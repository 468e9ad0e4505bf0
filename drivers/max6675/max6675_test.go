package max6675

import (
	"errors"
	"testing"
)

// fakeSPI plays back one 16-bit word per transaction.
type fakeSPI struct {
	word uint16
	err  error
	txs  int
}

func (f *fakeSPI) Tx(w, r []byte) error {
	f.txs++
	if f.err != nil {
		return f.err
	}
	if len(r) >= 2 {
		r[0] = byte(f.word >> 8)
		r[1] = byte(f.word)
	}
	return nil
}

func (f *fakeSPI) Transfer(b byte) (byte, error) { return 0, nil }

type fakeCS struct {
	level   bool
	toggles int
}

func (p *fakeCS) Set(level bool) {
	if p.level != level {
		p.toggles++
	}
	p.level = level
}

func word(quarters uint16) uint16 { return quarters << 3 }

func TestReadCelsius(t *testing.T) {
	cs := &fakeCS{}
	spi := &fakeSPI{word: word(401)} // 100.25 °C
	d := New(spi, cs)

	got, err := d.ReadCelsius()
	if err != nil {
		t.Fatalf("ReadCelsius error: %v", err)
	}
	if got != 100.25 {
		t.Errorf("got %v °C, want 100.25", got)
	}
	if !cs.level {
		t.Error("chip select left asserted after read")
	}
}

func TestReadZero(t *testing.T) {
	d := New(&fakeSPI{word: word(0)}, &fakeCS{})
	got, err := d.ReadCelsius()
	if err != nil || got != 0 {
		t.Errorf("got %v, %v; want 0, nil", got, err)
	}
}

func TestOpenThermocouple(t *testing.T) {
	d := New(&fakeSPI{word: word(401) | 0x0004}, &fakeCS{})
	if _, err := d.ReadQuarters(); !errors.Is(err, ErrOpenCircuit) {
		t.Fatalf("expected ErrOpenCircuit, got %v", err)
	}
}

func TestProtocolError(t *testing.T) {
	// Device-ID bit must be 0 on a genuine MAX6675 word.
	d := New(&fakeSPI{word: word(401) | 0x0002}, &fakeCS{})
	if _, err := d.ReadQuarters(); !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
}

func TestBusErrorPassedThrough(t *testing.T) {
	busErr := errors.New("spi: bus fault")
	cs := &fakeCS{}
	d := New(&fakeSPI{err: busErr}, cs)
	if _, err := d.ReadQuarters(); !errors.Is(err, busErr) {
		t.Fatalf("expected bus error, got %v", err)
	}
	if !cs.level {
		t.Error("chip select left asserted after failed read")
	}
}
