package output

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/pkg/money"
)

// Disclaimer is printed on every human-readable report.
const Disclaimer = "Vereinfachtes Modell, keine Steuerberatung."

// FormatCurrency formats a decimal as EUR in German notation.
func FormatCurrency(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).Format() }

// FormatWholeCurrency drops the cents, as the summary views do.
func FormatWholeCurrency(amount decimal.Decimal) string { return money.FormatNumber(amount, 0) + " €" }

// FormatPercentage formats a rate (0.25 = 25 %) with 2 decimals.
func FormatPercentage(rate decimal.Decimal) string { return money.FormatPercent(rate, 2) }

// FormatAge renders a fractional age with one decimal.
func FormatAge(age decimal.Decimal) string { return money.FormatNumber(age, 1) }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
