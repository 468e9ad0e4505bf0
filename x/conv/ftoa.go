package conv

// AppendFixed3 appends v formatted with exactly three decimal places, e.g.
// 0.763 → "0.763", -12.5 → "-12.500". Rounding is half-away-from-zero on the
// third decimal. This is the only float formatting the wire protocol needs;
// strconv.FormatFloat is deliberately avoided on the MCU path.
func AppendFixed3(dst []byte, v float32) []byte {
	f := float64(v)
	neg := f < 0
	if neg {
		f = -f
	}
	// Scale to milli-units with rounding.
	m := uint64(f*1000 + 0.5)
	if neg && m > 0 {
		dst = append(dst, '-')
	}
	dst = AppendUint(dst, m/1000)
	dst = append(dst, '.')
	frac := m % 1000
	dst = append(dst, byte('0'+frac/100))
	dst = append(dst, byte('0'+frac/10%10))
	dst = append(dst, byte('0'+frac%10))
	return dst
}
