package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Micros returns t as microseconds since the Unix epoch. Debounce and rate
// estimation work on this scale.
func Micros(t time.Time) int64 { return t.UnixMicro() }

// ElapsedMs returns whole milliseconds from origin to now, clamped at zero.
// Every response line's t_ms field is computed with this.
func ElapsedMs(origin, now time.Time) int64 {
	d := now.Sub(origin)
	if d < 0 {
		return 0
	}
	return int64(d / time.Millisecond)
}
