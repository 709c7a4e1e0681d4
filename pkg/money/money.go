package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Amount is a monetary value in minor currency units (tiyn, cents).
// Keeping money integral avoids the rounding drift that creeps in when
// fares and surcharges are accumulated as binary floats.
type Amount int64

var ErrNegativeAmount = errors.New("amount must not be negative")

// FromMajor converts a value expressed in major units (e.g. 12.34) to an Amount.
func FromMajor(v float64) Amount {
	return Amount(roundHalfAway(v * 100))
}

// Major returns the amount in major units as a float. Display use only.
func (a Amount) Major() float64 {
	return float64(a) / 100
}

// Mul multiplies a per-unit rate by a fractional quantity (km, minutes),
// rounding half away from zero. Each multiplication rounds independently so
// repeated additive charges stay consistent with what was shown to the operator.
func Mul(rate Amount, qty float64) Amount {
	return Amount(roundHalfAway(float64(rate) * qty))
}

// MulFactor scales an amount by a dimensionless factor (surge multiplier).
func MulFactor(a Amount, factor float64) Amount {
	return Amount(roundHalfAway(float64(a) * factor))
}

func roundHalfAway(v float64) int64 {
	if v >= 0 {
		return int64(math.Floor(v + 0.5))
	}
	return int64(math.Ceil(v - 0.5))
}

// Max returns the larger of two amounts.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

var symbols = map[string]string{
	"KZT": "₸",
	"USD": "$",
	"EUR": "€",
	"RUB": "₽",
	"INR": "₹",
}

// Format renders an amount for display: currency symbol prefix, thousands
// separators and exactly two decimal places, e.g. "₸1,234.50".
func Format(a Amount, currency string) string {
	symbol, ok := symbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}

	negative := a < 0
	if negative {
		a = -a
	}

	units := int64(a) / 100
	fraction := int64(a) % 100

	grouped := groupThousands(units)
	out := fmt.Sprintf("%s%s.%02d", symbol, grouped, fraction)
	if negative {
		return "-" + out
	}
	return out
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
