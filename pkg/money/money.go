package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a EUR amount with decimal precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// String returns the amount with two decimals in plain notation
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount in German notation, e.g. "1.234,57 €"
func (m Money) Format() string {
	return FormatNumber(m.Decimal, 2) + " €"
}

// FormatNumber renders d with the given decimals, "." as thousands separator and "," as decimal mark
func FormatNumber(d decimal.Decimal, places int32) string {
	fixed := d.Abs().StringFixed(places)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Round(places).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatPercent renders a rate as a German percentage, e.g. 0.0142 -> "1,42 %"
func FormatPercent(rate decimal.Decimal, places int32) string {
	return FormatNumber(rate.Mul(decimal.NewFromInt(100)), places) + " %"
}
