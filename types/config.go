package types

// ------------------------
// Rig configuration
// ------------------------

// Config gathers every tunable of the controller. Zero values are not usable;
// start from Default() and override per board.
type Config struct {
	// Serial link.
	Baud uint32
	// Command line buffer capacity in bytes. Longest legal command is
	// "READ_ALL\r\n"; the default leaves generous slack without inviting
	// unbounded input.
	LineCap int

	Tacho    TachoConfig
	Igniter  IgniterConfig
	Pressure PressureConfig
}

// TachoConfig covers the pulse counter and rate estimation.
type TachoConfig struct {
	// DebounceUS is the guard interval between accepted edges, microseconds.
	// Edges closer together than this are electrical noise, not rotation.
	DebounceUS int64
	// PulsesPerRev is the sensor's pulse count per full revolution.
	PulsesPerRev uint32
}

// IgniterConfig times the actuator sequence, milliseconds from arm.
type IgniterConfig struct {
	DelayMS uint32 // arm → output on
	OnMS    uint32 // output on → output off (sequence done)
}

// PressureConfig maps raw ADC counts to kilopascals.
type PressureConfig struct {
	VRef     float32 // ADC reference, volts
	MaxCount uint16  // full-scale raw reading
	OffsetV  float32 // transducer output at zero differential pressure
	ScaleKPa float32 // kPa per volt above offset
}

// Default returns the reference device's values.
func Default() Config {
	return Config{
		Baud:    115200,
		LineCap: 48,
		Tacho: TachoConfig{
			DebounceUS:   300,
			PulsesPerRev: 2,
		},
		Igniter: IgniterConfig{
			DelayMS: 10000,
			OnMS:    5000,
		},
		Pressure: PressureConfig{
			VRef:     5.0,
			MaxCount: 1023,
			OffsetV:  0.14,
			ScaleKPa: 10.0 / 4.7,
		},
	}
}
