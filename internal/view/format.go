package view

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed formats v with exactly places decimals
func Fixed(v float64, places int) string {
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

// Percent formats v with places decimals and a percent sign
func Percent(v float64, places int) string {
	return Fixed(v, places) + "%"
}

// Currency formats v as dollars with thousands grouping and at most two decimals
func Currency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	s := d.String()
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	return fmt.Sprintf("$%s%s%s", sign, groupThousands(intPart), fracPart)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
