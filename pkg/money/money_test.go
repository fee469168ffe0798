package money

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func TestNewMoneyFromDecimal(t *testing.T) {
	d := stddec.NewFromFloat(10.125)
	m := NewMoneyFromDecimal(d)
	if !m.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m.Decimal, d)
	}
	if m.String() != "10.13" {
		t.Fatalf("String got %s", m.String())
	}
}

func TestFormat(t *testing.T) {
	cases := []struct{ in, out string }{
		{"0", "0,00 €"},
		{"5.5", "5,50 €"},
		{"999.999", "1.000,00 €"},
		{"1234.567", "1.234,57 €"},
		{"192000", "192.000,00 €"},
		{"1234567.8", "1.234.567,80 €"},
		{"-2500.25", "-2.500,25 €"},
		{"-0.001", "0,00 €"},
	}
	for _, c := range cases {
		m := NewMoneyFromDecimal(stddec.RequireFromString(c.in))
		if got := m.Format(); got != c.out {
			t.Fatalf("Format(%s) got %q want %q", c.in, got, c.out)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(stddec.RequireFromString("0.0142"), 2); got != "1,42 %" {
		t.Fatalf("got %q", got)
	}
	if got := FormatPercent(stddec.RequireFromString("0.184625"), 1); got != "18,5 %" {
		t.Fatalf("got %q", got)
	}
	if got := FormatNumber(stddec.RequireFromString("67.5"), 0); got != "68" {
		t.Fatalf("got %q", got)
	}
}
