package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"5", 500, true},
		{"5.3", 530, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{" 2.50 ", 250, true},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-4.00", 0, false},
		{"+1", 0, false},
		{"10.005", 0, false}, // three decimals are rejected, never rounded
		{"1,23", 0, false},
		{"1.2.3", 0, false},
		{"1.", 0, false},
		{".5", 0, false},
		{"abc", 0, false},
		{"1e2", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error, got %d", tc.in, got)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{50, "0.50"},
		{100, "1.00"},
		{530, "5.30"},
		{123456, "1234.56"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.cents); got != tc.want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

// Valid two-decimal inputs must survive parse+format unchanged after
// canonical formatting.
func TestAmountRoundTrip(t *testing.T) {
	for _, in := range []string{"0.01", "1.00", "5.30", "12.34", "999999.99"} {
		cents, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("%q parse: %v", in, err)
		}
		if got := FormatAmount(cents); got != in {
			t.Fatalf("%q round-tripped to %q", in, got)
		}
	}
	// Short forms canonicalize to two decimals.
	short := map[string]string{"5": "5.00", "5.3": "5.30", "12": "12.00"}
	for in, want := range short {
		cents, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("%q parse: %v", in, err)
		}
		if got := FormatAmount(cents); got != want {
			t.Fatalf("%q formatted to %q, want %q", in, got, want)
		}
	}
}

func TestSharePercent(t *testing.T) {
	cases := []struct {
		part, whole int64
		want        float64
	}{
		{3000, 4000, 75.0},
		{1000, 4000, 25.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 100, 0},
		{10, 0, 0}, // zero month total never divides
	}
	for _, tc := range cases {
		if got := SharePercent(tc.part, tc.whole); got != tc.want {
			t.Fatalf("SharePercent(%d, %d) = %v, want %v", tc.part, tc.whole, got, tc.want)
		}
	}
}
