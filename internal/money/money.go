// Package money formats rupee amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const rupee = "₹"

// FormatINR renders amount the way en-IN locales show rupees: Indian digit
// grouping (12,34,567), no trailing zero fraction, at most two decimals.
func FormatINR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.Round(2).StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(rupee)
	b.WriteString(groupIndian(intPart))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
