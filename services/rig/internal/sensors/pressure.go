// services/rig/internal/sensors/pressure.go

// Package sensors holds the on-demand instrument readers. Both readers are
// pure converters over an injected transducer handle; neither owns goroutines
// or timers.
package sensors

import (
	"rigcode-go/types"
	"rigcode-go/x/mathx"
)

// ADC is the raw analog input contract; machine.ADC and the host fakes
// satisfy it.
type ADC interface {
	Get() uint16
}

// PressureReader converts raw ADC counts to kilopascals through a fixed
// linear calibration.
type PressureReader struct {
	adc ADC
	cfg types.PressureConfig
}

// NewPressureReader validates the calibration enough to avoid divide-by-zero
// and returns a reader.
func NewPressureReader(adc ADC, cfg types.PressureConfig) *PressureReader {
	if cfg.MaxCount == 0 {
		cfg.MaxCount = 1023
	}
	return &PressureReader{adc: adc, cfg: cfg}
}

// ReadKPa samples once and converts. Results below zero are noise around the
// transducer's zero offset, not valid differential pressure, and clamp to 0.
func (r *PressureReader) ReadKPa() float32 {
	raw := r.adc.Get()
	volts := float32(raw) * r.cfg.VRef / float32(r.cfg.MaxCount)
	kpa := (volts - r.cfg.OffsetV) * r.cfg.ScaleKPa
	return mathx.Max(kpa, 0)
}
