// Package max6675 provides a driver for the MAX6675 K-type thermocouple
// converter. The device is read-only: each SPI transaction clocks out one
// 16-bit word containing the latest conversion.
//
// Word layout (MSB first):
//
//	bit 15     dummy, always 0
//	bits 14..3 temperature, 12-bit unsigned, 0.25 °C per LSB
//	bit 2      thermocouple input open (fault)
//	bit 1      device ID, always 0
//	bit 0      tri-state
//
// A conversion takes up to 220 ms; reading faster than that simply returns
// the previous conversion, which is fine for this application's on-demand
// sampling. Reads keep CS asserted only for the 16-bit transfer.
package max6675

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrOpenCircuit = errors.New("max6675: thermocouple open")
	ErrProtocol    = errors.New("max6675: protocol error")
)

// Pin is the chip-select contract; machine.Pin satisfies it directly.
type Pin interface {
	Set(level bool)
}

// Device wraps an SPI connection to a MAX6675. The SPI bus must already be
// configured (mode 0, ≤ 4.3 MHz).
type Device struct {
	bus drivers.SPI
	cs  Pin
	buf [2]byte // reuse buffer to avoid allocations
}

// New creates a new MAX6675 connection and deasserts chip select.
func New(bus drivers.SPI, cs Pin) *Device {
	cs.Set(true)
	return &Device{bus: bus, cs: cs}
}

// ReadQuarters returns the temperature in quarter-degrees Celsius (fixed
// point, 0.25 °C per count). An open thermocouple input is reported as
// ErrOpenCircuit.
func (d *Device) ReadQuarters() (uint16, error) {
	d.cs.Set(false)
	err := d.bus.Tx(nil, d.buf[:])
	d.cs.Set(true)
	if err != nil {
		return 0, err
	}
	w := uint16(d.buf[0])<<8 | uint16(d.buf[1])
	if w&0x8000 != 0 || w&0x0002 != 0 {
		// Dummy or device-ID bit set: not a MAX6675 word.
		return 0, ErrProtocol
	}
	if w&0x0004 != 0 {
		return 0, ErrOpenCircuit
	}
	return (w >> 3) & 0x0FFF, nil
}

// ReadCelsius returns the temperature in degrees Celsius.
func (d *Device) ReadCelsius() (float32, error) {
	q, err := d.ReadQuarters()
	if err != nil {
		return 0, err
	}
	return float32(q) * 0.25, nil
}
