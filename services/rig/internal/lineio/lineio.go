// services/rig/internal/lineio/lineio.go

// Package lineio assembles serial bytes into newline-terminated command lines
// without blocking and without unbounded growth.
package lineio

// Buffer accumulates one pending line. Carriage returns are ignored, a line
// feed completes the line, and a line longer than the capacity is discarded
// wholesale: accumulation stops, and the terminator that ends the overlong
// line is swallowed too, so the next well-formed line parses normally.
type Buffer struct {
	buf        []byte
	n          int
	discarding bool
	overflows  uint32
}

// New returns a buffer holding at most capacity bytes per line.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 48
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Feed consumes one byte. When the byte completes a non-empty line, Feed
// returns it with ok = true; the returned slice aliases the internal buffer
// and is valid until the next Feed call. Empty lines and discarded fragments
// return ok = false.
func (b *Buffer) Feed(c byte) (line []byte, ok bool) {
	switch c {
	case '\r':
		return nil, false
	case '\n':
		if b.discarding {
			b.discarding = false
			b.n = 0
			return nil, false
		}
		if b.n == 0 {
			return nil, false
		}
		line = b.buf[:b.n]
		b.n = 0
		return line, true
	default:
		if b.discarding {
			return nil, false
		}
		if b.n == len(b.buf) {
			b.discarding = true
			b.n = 0
			b.overflows++
			return nil, false
		}
		b.buf[b.n] = c
		b.n++
		return nil, false
	}
}

// Overflows reports how many lines have been discarded for exceeding the
// capacity since boot.
func (b *Buffer) Overflows() uint32 { return b.overflows }
