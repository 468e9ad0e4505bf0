package client

import (
	"strconv"
	"strings"

	"rigcode-go/errcode"
	"rigcode-go/types"
)

// ParseFrame decodes a READ_ALL response line:
//
//	OK DATA <t_ms> <rpm> <pressure_kpa> <temp_c> <mosfet>
func ParseFrame(line string) (types.Frame, error) {
	f := strings.Fields(strings.TrimSpace(line))
	if len(f) != 7 || !strings.EqualFold(f[0], "OK") || !strings.EqualFold(f[1], "DATA") {
		return types.Frame{}, &errcode.E{C: errcode.BadResponse, Op: "client.ParseFrame", Msg: line}
	}
	tms, err := strconv.ParseInt(f[2], 10, 64)
	if err != nil {
		return types.Frame{}, badField("t_ms", err)
	}
	rpm, err := strconv.ParseUint(f[3], 10, 32)
	if err != nil {
		return types.Frame{}, badField("rpm", err)
	}
	kpa, err := strconv.ParseFloat(f[4], 32)
	if err != nil {
		return types.Frame{}, badField("pressure", err)
	}
	temp, err := strconv.ParseFloat(f[5], 32)
	if err != nil {
		return types.Frame{}, badField("temp", err)
	}
	mosfet, err := strconv.ParseUint(f[6], 10, 8)
	if err != nil || mosfet > 1 {
		return types.Frame{}, badField("mosfet", err)
	}
	return types.Frame{
		TMs:         tms,
		RPM:         uint32(rpm),
		PressureKPa: float32(kpa),
		TempC:       float32(temp),
		Mosfet:      uint8(mosfet),
	}, nil
}

// ParseRPM decodes a READ_RPM response line: OK RPM <t_ms> <rpm>.
func ParseRPM(line string) (tms int64, rpm uint32, err error) {
	f := strings.Fields(strings.TrimSpace(line))
	if len(f) != 4 || !strings.EqualFold(f[0], "OK") || !strings.EqualFold(f[1], "RPM") {
		return 0, 0, &errcode.E{C: errcode.BadResponse, Op: "client.ParseRPM", Msg: line}
	}
	tms, err = strconv.ParseInt(f[2], 10, 64)
	if err != nil {
		return 0, 0, badField("t_ms", err)
	}
	r, err := strconv.ParseUint(f[3], 10, 32)
	if err != nil {
		return 0, 0, badField("rpm", err)
	}
	return tms, uint32(r), nil
}

// ParsePT decodes a READ_PT response line: OK PT <t_ms> <pressure> <temp>.
func ParsePT(line string) (tms int64, kpa, temp float32, err error) {
	f := strings.Fields(strings.TrimSpace(line))
	if len(f) != 5 || !strings.EqualFold(f[0], "OK") || !strings.EqualFold(f[1], "PT") {
		return 0, 0, 0, &errcode.E{C: errcode.BadResponse, Op: "client.ParsePT", Msg: line}
	}
	tms, err = strconv.ParseInt(f[2], 10, 64)
	if err != nil {
		return 0, 0, 0, badField("t_ms", err)
	}
	p, err := strconv.ParseFloat(f[3], 32)
	if err != nil {
		return 0, 0, 0, badField("pressure", err)
	}
	t, err := strconv.ParseFloat(f[4], 32)
	if err != nil {
		return 0, 0, 0, badField("temp", err)
	}
	return tms, float32(p), float32(t), nil
}

func badField(name string, err error) error {
	return &errcode.E{C: errcode.BadResponse, Op: "client.parse", Msg: name, Err: err}
}
