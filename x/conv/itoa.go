package conv

// AppendInt appends the base-10 representation of n to dst and returns the
// extended slice. No allocations beyond dst growth; no fmt/strconv dependency,
// so it is safe in the MCU response path.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}
