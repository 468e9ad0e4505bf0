package types

// ------------------------
// Bus payloads
// ------------------------

// StateEvent is published (retained) on rig/state at every sequencer phase
// change and at boot.
type StateEvent struct {
	Phase  string `json:"phase"` // "idle", "armed_waiting", "armed_on", "done"
	TMs    int64  `json:"t_ms"`  // ms since the experiment time origin
	Firing bool   `json:"firing"`
}

// Frame is one combined sample, the Go form of an "OK DATA" line. Published on
// rig/sample and produced by the host-side parser.
type Frame struct {
	TMs         int64   `json:"t_ms"`
	RPM         uint32  `json:"rpm"`
	PressureKPa float32 `json:"pressure_kpa"`
	TempC       float32 `json:"temp_c"`
	Mosfet      uint8   `json:"mosfet"` // 0/1, actuator drive level
}

// FaultEvent is published on rig/fault when a sensor transaction fails.
// The wire protocol is unaffected; this is the observability side channel.
type FaultEvent struct {
	Code   string `json:"code"` // errcode.Code value
	Sensor string `json:"sensor"`
	TMs    int64  `json:"t_ms"`
}
