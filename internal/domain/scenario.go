package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PayoutMode selects how the policy pays out during decumulation
type PayoutMode string

const (
	// PayoutWithdrawalPlan withdraws capital monthly and taxes the proportional gain
	PayoutWithdrawalPlan PayoutMode = "withdrawal_plan"
	// PayoutAnnuity pays a life annuity taxed on its Ertragsanteil
	PayoutAnnuity PayoutMode = "annuity"

	// payoutCapitalWithdrawalPlan is the spelling used by stored scenario records
	payoutCapitalWithdrawalPlan = "capital_withdrawal_plan"
)

// ParsePayoutMode normalizes a payout mode string. Unknown values are rejected.
func ParsePayoutMode(s string) (PayoutMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PayoutWithdrawalPlan), payoutCapitalWithdrawalPlan:
		return PayoutWithdrawalPlan, nil
	case string(PayoutAnnuity):
		return PayoutAnnuity, nil
	default:
		return "", fmt.Errorf("unknown payout mode %q", s)
	}
}

// UnmarshalText accepts both the canonical and the stored-record spelling.
// Unknown values are kept verbatim so validation can report them.
func (m *PayoutMode) UnmarshalText(text []byte) error {
	parsed, err := ParsePayoutMode(string(text))
	if err != nil {
		*m = PayoutMode(text)
		return nil
	}
	*m = parsed
	return nil
}

// IsAnnuity reports whether the policy is annuitized. Every other value is a withdrawal plan.
func (m PayoutMode) IsAnnuity() bool {
	return m == PayoutAnnuity
}

// GlidePoint is a control point of the equity allocation schedule
type GlidePoint struct {
	Year        int             `yaml:"year" json:"year"` // offset in years from the current age
	EquityShare decimal.Decimal `yaml:"equity_share" json:"equity_share"`
}

// DepotCosts describes the running costs of the brokerage account
type DepotCosts struct {
	TERPA      decimal.Decimal `yaml:"ter_pa" json:"ter_pa"`
	AUMFeePA   decimal.Decimal `yaml:"aum_fee_pa" json:"aum_fee_pa"`
	MonthlyFee decimal.Decimal `yaml:"monthly_fee" json:"monthly_fee"`

	// Carried for display only, not part of the cost computation
	SwitchesTotal int `yaml:"switches_total" json:"switches_total"`
}

// PayoutSettings controls the decumulation phase
type PayoutSettings struct {
	TargetNetWithdrawalMonthly decimal.Decimal `yaml:"target_net_withdrawal_monthly" json:"target_net_withdrawal_monthly"`
	EndAge                     int             `yaml:"end_age" json:"end_age"`
	PayoutMode                 PayoutMode      `yaml:"payout_mode" json:"payout_mode"`
	AllowDeferralYears         int             `yaml:"allow_deferral_years,omitempty" json:"allow_deferral_years,omitempty"` // informational
}

// ScenarioInput holds customer attributes and plan parameters for one simulation run
type ScenarioInput struct {
	Name                string          `yaml:"name" json:"name"`
	Age                 int             `yaml:"age" json:"age"`
	ChurchTaxEnabled    bool            `yaml:"church_tax_enabled" json:"church_tax_enabled"`
	RetirementAgeBase   int             `yaml:"retirement_age_base" json:"retirement_age_base"`
	RetirementAgePolicy int             `yaml:"retirement_age_policy" json:"retirement_age_policy"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution"`
	StartCapital        decimal.Decimal `yaml:"start_capital" json:"start_capital"`
	GrossReturnPA       decimal.Decimal `yaml:"gross_return_pa" json:"gross_return_pa"`

	// Inflation rates are informational and not applied to compounding
	InflationTargetPA decimal.Decimal `yaml:"inflation_target_pa" json:"inflation_target_pa"`
	InflationCalcPA   decimal.Decimal `yaml:"inflation_calc_pa" json:"inflation_calc_pa"`

	EquityFund     bool           `yaml:"equity_fund" json:"equity_fund"`
	Glidepath      []GlidePoint   `yaml:"glidepath" json:"glidepath"`
	DepotCosts     DepotCosts     `yaml:"depot_costs" json:"depot_costs"`
	PolicyTariffID *string        `yaml:"policy_tariff_id,omitempty" json:"policy_tariff_id,omitempty"`
	Payout         PayoutSettings `yaml:"payout" json:"payout"`
}

// AccumulationYears returns the whole years until the base retirement age, clamped at zero
func (s *ScenarioInput) AccumulationYears() int {
	if s.RetirementAgeBase < s.Age {
		return 0
	}
	return s.RetirementAgeBase - s.Age
}

// MonthsToRetirement returns the number of accumulation months
func (s *ScenarioInput) MonthsToRetirement() int {
	return s.AccumulationYears() * 12
}

// PayoutMonths returns the number of decumulation months, clamped at zero
func (s *ScenarioInput) PayoutMonths() int {
	months := (s.Payout.EndAge - s.RetirementAgeBase) * 12
	if months < 0 {
		return 0
	}
	return months
}

// TariffID returns the selected policy tariff or the empty string
func (s *ScenarioInput) TariffID() string {
	if s.PolicyTariffID == nil {
		return ""
	}
	return *s.PolicyTariffID
}

// PolicyContractYears is the contract duration used by the half-income rule
func (s *ScenarioInput) PolicyContractYears() int {
	return s.RetirementAgePolicy - s.Age
}

// TaxParams are the national capital-gains tax parameters
type TaxParams struct {
	WithholdingTaxRate     decimal.Decimal `yaml:"withholding_tax_rate" json:"withholding_tax_rate"`
	SoliRate               decimal.Decimal `yaml:"soli_rate" json:"soli_rate"`
	ChurchTaxRate          decimal.Decimal `yaml:"church_tax_rate" json:"church_tax_rate"`
	PartialExemptionEquity decimal.Decimal `yaml:"partial_exemption_equity" json:"partial_exemption_equity"`
}

// TariffRecord is a policy product with its effective annual cost (reduction in yield)
type TariffRecord struct {
	ID              string          `yaml:"id" json:"id"`
	Name            string          `yaml:"name" json:"name"`
	EffectiveCostPA decimal.Decimal `yaml:"effective_cost_pa" json:"effective_cost_pa"`
}
