// services/rig/command.go
package rig

import (
	"time"

	"rigcode-go/types"
	"rigcode-go/x/conv"
	"rigcode-go/x/timex"
)

// exec interprets one complete command line and writes exactly one response
// line. The line slice aliases the lineio buffer and is normalised in place.
func (r *Rig) exec(line []byte) {
	cmd := normalize(line)
	now := r.now()

	switch string(cmd) {
	case "PING":
		r.reply("OK PONG", nil)

	case "START":
		// New time origin, fresh RPM window, output held off until the
		// delay expires.
		r.origin = now
		r.est.Reset()
		r.seq.Arm(now)
		r.reply("OK START", nil)
		r.publishState()

	case "STOP":
		r.seq.Cancel()
		r.reply("OK STOP", nil)
		r.publishState()

	case "READ_RPM":
		r.reply("OK RPM", func(b []byte) []byte {
			b = conv.AppendInt(b, r.elapsedMs(now))
			b = append(b, ' ')
			return conv.AppendUint(b, uint64(r.est.Estimate(timex.Micros(now))))
		})

	case "READ_PT":
		kpa := r.pressure.ReadKPa()
		temp, err := r.thermo.ReadC()
		if err != nil {
			r.publishFault("thermocouple", now)
		}
		r.reply("OK PT", func(b []byte) []byte {
			b = conv.AppendInt(b, r.elapsedMs(now))
			b = append(b, ' ')
			b = conv.AppendFixed3(b, kpa)
			b = append(b, ' ')
			return conv.AppendFixed3(b, temp)
		})

	case "READ_ALL":
		f := r.sample(now)
		r.reply("OK DATA", func(b []byte) []byte {
			b = conv.AppendInt(b, f.TMs)
			b = append(b, ' ')
			b = conv.AppendUint(b, uint64(f.RPM))
			b = append(b, ' ')
			b = conv.AppendFixed3(b, f.PressureKPa)
			b = append(b, ' ')
			b = conv.AppendFixed3(b, f.TempC)
			b = append(b, ' ')
			return append(b, byte('0'+f.Mosfet))
		})
		r.publishSample(f)

	default:
		r.reply("ERR UNKNOWN", nil)
	}
}

// sample collects one combined frame, the READ_ALL payload.
func (r *Rig) sample(now time.Time) types.Frame {
	temp, err := r.thermo.ReadC()
	if err != nil {
		r.publishFault("thermocouple", now)
	}
	var mosfet uint8
	if r.seq.Firing() {
		mosfet = 1
	}
	return types.Frame{
		TMs:         r.elapsedMs(now),
		RPM:         r.est.Estimate(timex.Micros(now)),
		PressureKPa: r.pressure.ReadKPa(),
		TempC:       temp,
		Mosfet:      mosfet,
	}
}

// reply writes "<head> <fields...>\r\n". fields may be nil for bare replies.
// The scratch buffer is reused; no allocation on the response path.
func (r *Rig) reply(head string, fields func([]byte) []byte) {
	b := r.scratch[:0]
	b = append(b, head...)
	if fields != nil {
		b = append(b, ' ')
		b = fields(b)
	}
	b = append(b, '\r', '\n')
	r.scratch = b[:0]
	_, _ = r.port.Write(b)
}

// normalize trims ASCII whitespace and upper-cases in place, so command
// matching is case-insensitive without allocating.
func normalize(line []byte) []byte {
	start, end := 0, len(line)
	for start < end && isSpace(line[start]) {
		start++
	}
	for end > start && isSpace(line[end-1]) {
		end--
	}
	line = line[start:end]
	for i, c := range line {
		if 'a' <= c && c <= 'z' {
			line[i] = c - ('a' - 'A')
		}
	}
	return line
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }
