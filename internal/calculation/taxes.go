package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

var (
	decimalZero = decimal.Zero
	decimalOne  = decimal.NewFromInt(1)
	decimalHalf = decimal.NewFromFloat(0.5)
)

// DefaultTaxParams returns the bundled German capital-gains parameters
// (Abgeltungsteuer, Solidaritätszuschlag, Kirchensteuer, Teilfreistellung for equity funds).
func DefaultTaxParams() domain.TaxParams {
	return domain.TaxParams{
		WithholdingTaxRate:     decimal.NewFromFloat(0.25),
		SoliRate:               decimal.NewFromFloat(0.055),
		ChurchTaxRate:          decimal.NewFromFloat(0.09),
		PartialExemptionEquity: decimal.NewFromFloat(0.30),
	}
}

// EffectiveTaxRate returns the surcharged withholding rate, reduced by the
// partial exemption for equity funds.
func EffectiveTaxRate(isEquityFund, hasChurchTax bool, p domain.TaxParams) decimal.Decimal {
	base := p.WithholdingTaxRate
	nominal := base.Add(base.Mul(p.SoliRate))
	if hasChurchTax {
		nominal = nominal.Add(base.Mul(p.ChurchTaxRate))
	}
	if isEquityFund {
		return nominal.Mul(decimalOne.Sub(p.PartialExemptionEquity))
	}
	return nominal
}

// TaxOnGain returns the tax owed on a realized gain. Losses never produce a credit.
func TaxOnGain(gain decimal.Decimal, isEquityFund, hasChurchTax bool, p domain.TaxParams) decimal.Decimal {
	if gain.LessThanOrEqual(decimalZero) {
		return decimalZero
	}
	return gain.Mul(EffectiveTaxRate(isEquityFund, hasChurchTax, p))
}

type ertragsanteilEntry struct {
	age   int
	share decimal.Decimal
}

// Ascending by age; lookups rely on this order for tie breaking.
var ertragsanteilTable = []ertragsanteilEntry{
	{62, decimal.NewFromFloat(0.21)},
	{63, decimal.NewFromFloat(0.20)},
	{64, decimal.NewFromFloat(0.19)},
	{65, decimal.NewFromFloat(0.18)},
	{66, decimal.NewFromFloat(0.17)},
	{67, decimal.NewFromFloat(0.17)},
}

// ErtragsanteilForAge returns the taxable fraction of an annuity started at the
// given age. Ages outside the table use the nearest tabulated age, ties going to
// the lower one.
func ErtragsanteilForAge(age int) decimal.Decimal {
	best := ertragsanteilTable[0]
	for _, e := range ertragsanteilTable {
		if e.age == age {
			return e.share
		}
		if absInt(e.age-age) < absInt(best.age-age) {
			best = e
		}
	}
	return best.share
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// TaxCalculator binds a parameter set and the customer's church-tax flag
type TaxCalculator struct {
	Params    domain.TaxParams
	ChurchTax bool
}

// NewTaxCalculator creates a tax calculator for one simulation run
func NewTaxCalculator(params domain.TaxParams, churchTax bool) TaxCalculator {
	return TaxCalculator{Params: params, ChurchTax: churchTax}
}

// Rate returns the effective rate for the given fund classification
func (tc TaxCalculator) Rate(isEquityFund bool) decimal.Decimal {
	return EffectiveTaxRate(isEquityFund, tc.ChurchTax, tc.Params)
}

// Tax returns the tax owed on a gain
func (tc TaxCalculator) Tax(gain decimal.Decimal, isEquityFund bool) decimal.Decimal {
	return TaxOnGain(gain, isEquityFund, tc.ChurchTax, tc.Params)
}
