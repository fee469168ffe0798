package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

// PayoutTaxer computes the tax on a gross withdrawal from one vehicle
type PayoutTaxer interface {
	TaxOnGross(gross decimal.Decimal) decimal.Decimal
	Name() string
}

// NetFunc adapts a PayoutTaxer to the gross-up solver
func NetFunc(t PayoutTaxer) NetOfGross {
	return func(gross decimal.Decimal) decimal.Decimal {
		return gross.Sub(t.TaxOnGross(gross))
	}
}

// proportionalGain is the share of the unrealized gain carried by a withdrawal of gross.
// The balance is floored at one currency unit.
func proportionalGain(balance, costBasis, gross decimal.Decimal) decimal.Decimal {
	gain := decimal.Max(decimalZero, balance.Sub(costBasis))
	return gain.Mul(gross.Div(decimal.Max(balance, decimalOne)))
}

// DepotSale taxes the proportional gain realized by selling fund units
type DepotSale struct {
	Balance    decimal.Decimal
	CostBasis  decimal.Decimal
	EquityFund bool
	Tax        TaxCalculator
}

func (d DepotSale) TaxOnGross(gross decimal.Decimal) decimal.Decimal {
	return d.Tax.Tax(proportionalGain(d.Balance, d.CostBasis, gross), d.EquityFund)
}

func (d DepotSale) Name() string {
	return "depot"
}

// PolicyAnnuity taxes the Ertragsanteil of each annuity payment
type PolicyAnnuity struct {
	Ertragsanteil decimal.Decimal
	Tax           TaxCalculator
}

func (p PolicyAnnuity) TaxOnGross(gross decimal.Decimal) decimal.Decimal {
	return p.Tax.Tax(gross.Mul(p.Ertragsanteil), false)
}

func (p PolicyAnnuity) Name() string {
	return "policy"
}

// PolicyWithdrawalPlan taxes the proportional gain of a policy withdrawal,
// reduced by the half-income share when eligible.
type PolicyWithdrawalPlan struct {
	Balance      decimal.Decimal
	CostBasis    decimal.Decimal
	TaxableShare decimal.Decimal
	Tax          TaxCalculator
}

func (p PolicyWithdrawalPlan) TaxOnGross(gross decimal.Decimal) decimal.Decimal {
	gain := proportionalGain(p.Balance, p.CostBasis, gross).Mul(p.TaxableShare)
	return p.Tax.Tax(gain, false)
}

func (p PolicyWithdrawalPlan) Name() string {
	return "policy"
}

// HalfIncomeEligible reports whether the policy ran at least 12 years and pays out from age 62
func HalfIncomeEligible(input domain.ScenarioInput) bool {
	return input.PolicyContractYears() >= 12 && input.RetirementAgePolicy >= 62
}

// PolicyTaxableShare returns 0.5 under the half-income privilege, else 1
func PolicyTaxableShare(input domain.ScenarioInput) decimal.Decimal {
	if HalfIncomeEligible(input) {
		return decimalHalf
	}
	return decimalOne
}

// NewPolicyPayout returns the taxer matching the scenario's payout mode
func NewPolicyPayout(input domain.ScenarioInput, balance, costBasis decimal.Decimal, tax TaxCalculator) PayoutTaxer {
	if input.Payout.PayoutMode.IsAnnuity() {
		return PolicyAnnuity{Ertragsanteil: ErtragsanteilForAge(input.RetirementAgePolicy), Tax: tax}
	}
	return PolicyWithdrawalPlan{
		Balance:      balance,
		CostBasis:    costBasis,
		TaxableShare: PolicyTaxableShare(input),
		Tax:          tax,
	}
}
