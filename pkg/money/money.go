// Package money converts between peso text and int64 cents.
package money

import (
	"math"
	"strconv"
	"strings"
)

// MaxCents bounds any single amount or total: ten trillion pesos.
// Sums of MaxCents values stay far from int64 overflow.
const MaxCents int64 = 1_000_000_000_000_000

// MulCents returns unit*qty, or false when the product exceeds MaxCents
func MulCents(unit int64, qty int) (int64, bool) {
	if unit < 0 || qty < 0 {
		return 0, false
	}
	if unit == 0 || qty == 0 {
		return 0, true
	}
	if int64(qty) > MaxCents/unit {
		return 0, false
	}
	return unit * int64(qty), true
}

// AddCents returns a+b, or false when the sum exceeds MaxCents
func AddCents(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > MaxCents-b {
		return 0, false
	}
	return a + b, true
}

// ParsePesos reads whole pesos out of free text. Every non-digit is dropped,
// so "12.000", "12,000" and "$ 12000" all mean twelve thousand pesos.
func ParsePesos(text string) (int64, bool) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	pesos, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	if pesos > math.MaxInt64/100 || pesos*100 > MaxCents {
		return 0, false
	}
	return pesos * 100, true
}

// FormatPlain renders cents as [-]units.cc
func FormatPlain(cents int64) string {
	sign := ""
	abs := uint64(cents)
	if cents < 0 {
		sign = "-"
		abs = uint64(-(cents + 1)) + 1
	}
	units := abs / 100
	frac := abs % 100

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(strconv.FormatUint(units, 10))
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatUint(frac, 10))
	return b.String()
}

// FormatPesos renders whole pesos grouped by thousands, e.g. "$ 12.345".
// Cents are truncated.
func FormatPesos(cents int64) string {
	sign := ""
	abs := uint64(cents)
	if cents < 0 {
		sign = "-"
		abs = uint64(-(cents + 1)) + 1
	}
	raw := strconv.FormatUint(abs/100, 10)

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("$ ")
	lead := len(raw) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(raw[:lead])
	for i := lead; i < len(raw); i += 3 {
		b.WriteByte('.')
		b.WriteString(raw[i : i+3])
	}
	return b.String()
}
