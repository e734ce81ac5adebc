// Package core holds the expense domain: monetary encoding, input
// validation, and the row shapes produced by the aggregation queries.
//
// Money is carried as an integer count of minor units (cents). Conversion
// from decimal strings is purely textual so that valid two-decimal inputs
// round-trip exactly; nothing in this package touches floating point.
package core

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrDuplicateIdempotencyKey is returned by stores when an insert hits
	// the uniqueness constraint on idempotency_key.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrNotFound is returned by store point lookups that match no row.
	ErrNotFound = errors.New("expense not found")
)

// ParseAmount converts a decimal string into cents.
//
// The input must be a plain positive decimal with at most two fractional
// digits ("12", "12.3", "12.34"). Anything else is rejected: signs, commas,
// exponents, three decimals. There is deliberately no rounding here; an
// amount the caller cannot represent exactly is a validation failure, not
// something to coerce.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || !allDigits(whole) {
		return 0, ErrInvalidAmount
	}
	if hasFrac && (frac == "" || len(frac) > 2 || !allDigits(frac)) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxUnits = (1<<63 - 1) / 100
	if units > maxUnits {
		return 0, ErrInvalidAmount
	}

	// Pad the fraction to exactly two digits: "5" -> 500, "5.3" -> 530.
	var cents int64
	if hasFrac {
		for len(frac) < 2 {
			frac += "0"
		}
		cents = int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}

	total := units*100 + cents
	if total <= 0 {
		return 0, ErrInvalidAmount
	}
	return total, nil
}

// FormatAmount renders cents as a decimal string with exactly two
// fractional digits, the canonical wire representation.
func FormatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
