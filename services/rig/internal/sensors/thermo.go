// services/rig/internal/sensors/thermo.go
package sensors

// TempSensor is the thermocouple transaction contract. The MAX6675 driver
// satisfies it on hardware; tests and the simulator inject fakes.
type TempSensor interface {
	ReadCelsius() (float32, error)
}

// ThermoReader wraps a TempSensor with a last-good-value cache. A sensor
// fault (open thermocouple, bus error) keeps the wire contract intact by
// reporting the cached value; the caller decides what else to do with the
// error (the rig publishes a fault event).
type ThermoReader struct {
	sensor TempSensor
	lastC  float32
	faults uint32
}

func NewThermoReader(s TempSensor) *ThermoReader {
	return &ThermoReader{sensor: s}
}

// ReadC returns the current temperature, or the last good reading when the
// transaction fails. The error is returned alongside so the caller can
// observe the fault without losing the reportable value.
func (r *ThermoReader) ReadC() (float32, error) {
	c, err := r.sensor.ReadCelsius()
	if err != nil {
		r.faults++
		return r.lastC, err
	}
	r.lastC = c
	return c, nil
}

// Faults reports how many sensor transactions have failed since boot.
func (r *ThermoReader) Faults() uint32 { return r.faults }
