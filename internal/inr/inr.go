// Package inr formats amounts for display using the Indian numbering
// convention (thousand, lakh, crore grouping) and the rupee sign.
package inr

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	lakh  = 100000
	crore = 10000000

	// maxFractionDigits matches the en-IN locale default for plain numbers.
	maxFractionDigits = 3
)

// Currency formats an amount as rupees, abbreviating lakhs ("L") and crores ("Cr").
func Currency(amount float64) string {
	if math.IsNaN(amount) {
		return "₹0"
	}

	abs := math.Abs(amount)
	var formatted string
	switch {
	case abs >= crore:
		formatted = Fixed(abs/crore, 2) + " Cr"
	case abs >= lakh:
		formatted = Fixed(abs/lakh, 2) + " L"
	case abs >= 1000:
		formatted = Number(abs)
	default:
		formatted = Fixed(abs, 0)
	}

	if amount < 0 {
		return "-₹" + formatted
	}
	return "₹" + formatted
}

// Number formats a value with Indian digit grouping and at most three
// fraction digits, e.g. 1234567.5 -> "12,34,567.5".
func Number(value float64) string {
	if math.IsNaN(value) {
		return "0"
	}
	if math.IsInf(value, 0) {
		return nonFinite(value)
	}

	s := decimal.NewFromFloat(value).Round(maxFractionDigits).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	out := sign + group(whole)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// Fixed formats value with exactly digits fraction digits, rounding half away
// from zero. A negative value that rounds to zero keeps its sign, e.g. "-0".
func Fixed(value float64, digits int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nonFinite(value)
	}
	out := decimal.NewFromFloat(value).StringFixed(int32(digits))
	if value < 0 && !strings.HasPrefix(out, "-") {
		out = "-" + out
	}
	return out
}

// Plain formats value with the shortest representation that round-trips, e.g. 12 or 12.5.
func Plain(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nonFinite(value)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Round rounds half up, toward positive infinity.
func Round(value float64) float64 {
	return math.Floor(value + 0.5)
}

// group inserts separators into a run of digits: the last three digits
// form one group and every two digits before them another.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

func nonFinite(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case value > 0:
		return "Infinity"
	default:
		return "-Infinity"
	}
}
