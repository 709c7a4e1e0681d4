package money

import "testing"

func TestFromMajor_Rounds(t *testing.T) {
	cases := []struct {
		in   float64
		want Amount
	}{
		{0, 0},
		{1, 100},
		{12.34, 1234},
		{0.005, 1},
		{-0.005, -1},
		{299, 29900},
	}
	for _, c := range cases {
		if got := FromMajor(c.in); got != c.want {
			t.Fatalf("FromMajor(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMul_HalfAwayFromZero(t *testing.T) {
	// 14.00 per km * 5 km = 70.00
	if got := Mul(1400, 5); got != 7000 {
		t.Fatalf("Mul(1400, 5) = %d, want 7000", got)
	}
	// 12.00 per km * 2.5 km = 30.00
	if got := Mul(1200, 2.5); got != 3000 {
		t.Fatalf("Mul(1200, 2.5) = %d, want 3000", got)
	}
	// 0.01 * 0.5 rounds away from zero to 0.01
	if got := Mul(1, 0.5); got != 1 {
		t.Fatalf("Mul(1, 0.5) = %d, want 1", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		amount   Amount
		currency string
		want     string
	}{
		{123450, "KZT", "₸1,234.50"},
		{0, "USD", "$0.00"},
		{5, "USD", "$0.05"},
		{100000000, "EUR", "€1,000,000.00"},
		{-29900, "INR", "-₹299.00"},
		{12345, "GEL", "GEL 123.45"},
	}
	for _, c := range cases {
		if got := Format(c.amount, c.currency); got != c.want {
			t.Fatalf("Format(%d, %s) = %q, want %q", c.amount, c.currency, got, c.want)
		}
	}
}
