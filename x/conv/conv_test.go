package conv

import "testing"

func TestAppendInt(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-7, "-7"},
		{10500, "10500"},
		{-9223372036854775808, "-9223372036854775808"},
	}
	for _, c := range cases {
		if got := string(AppendInt(nil, c.in)); got != c.want {
			t.Errorf("AppendInt(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAppendUint(t *testing.T) {
	if got := string(AppendUint([]byte("rpm="), 3000)); got != "rpm=3000" {
		t.Errorf("got %q", got)
	}
	if got := string(AppendUint(nil, 0)); got != "0" {
		t.Errorf("got %q", got)
	}
}

func TestAppendFixed3(t *testing.T) {
	cases := []struct {
		in   float32
		want string
	}{
		{0, "0.000"},
		{0.763, "0.763"},
		{101.325, "101.325"},
		{-12.5, "-12.500"},
		{0.0004, "0.000"},
		{0.0006, "0.001"},
		{-0.0004, "0.000"}, // rounds to zero, sign dropped
		{25.9996, "26.000"},
	}
	for _, c := range cases {
		if got := string(AppendFixed3(nil, c.in)); got != c.want {
			t.Errorf("AppendFixed3(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
