package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScenarioInput_Phases(t *testing.T) {
	testCases := []struct {
		desc          string
		age           int
		retirement    int
		endAge        int
		expectedAccum int
		expectedPay   int
	}{
		{desc: "regular", age: 35, retirement: 67, endAge: 88, expectedAccum: 384, expectedPay: 252},
		{desc: "already retired", age: 70, retirement: 67, endAge: 88, expectedAccum: 0, expectedPay: 252},
		{desc: "end before retirement", age: 35, retirement: 67, endAge: 60, expectedAccum: 384, expectedPay: 0},
		{desc: "retiring now", age: 67, retirement: 67, endAge: 67, expectedAccum: 0, expectedPay: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			s := ScenarioInput{Age: tc.age, RetirementAgeBase: tc.retirement, Payout: PayoutSettings{EndAge: tc.endAge}}
			assert.Equal(t, tc.expectedAccum, s.MonthsToRetirement())
			assert.Equal(t, tc.expectedPay, s.PayoutMonths())
		})
	}
}

func TestParsePayoutMode(t *testing.T) {
	testCases := []struct {
		in       string
		expected PayoutMode
		wantErr  bool
	}{
		{in: "withdrawal_plan", expected: PayoutWithdrawalPlan},
		{in: "capital_withdrawal_plan", expected: PayoutWithdrawalPlan},
		{in: "", expected: PayoutWithdrawalPlan},
		{in: " Annuity ", expected: PayoutAnnuity},
		{in: "lump_sum", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			mode, err := ParsePayoutMode(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, mode)
		})
	}
}

func TestScenarioInput_YAMLDecode(t *testing.T) {
	raw := `
name: Basis
age: 40
retirement_age_base: 67
retirement_age_policy: 65
monthly_contribution: 250.50
gross_return_pa: 0.05
equity_fund: true
glidepath:
  - year: 0
    equity_share: 1
  - year: 20
    equity_share: 0.4
depot_costs:
  ter_pa: 0.002
  switches_total: 3
policy_tariff_id: tarif-a
payout:
  target_net_withdrawal_monthly: 900
  end_age: 90
  payout_mode: capital_withdrawal_plan
`
	var s ScenarioInput
	require.NoError(t, yaml.Unmarshal([]byte(raw), &s))

	assert.Equal(t, 40, s.Age)
	assert.True(t, s.MonthlyContribution.Equal(decimal.RequireFromString("250.5")))
	assert.Len(t, s.Glidepath, 2)
	assert.True(t, s.Glidepath[1].EquityShare.Equal(decimal.RequireFromString("0.4")))
	assert.Equal(t, 3, s.DepotCosts.SwitchesTotal)
	assert.Equal(t, "tarif-a", s.TariffID())
	assert.Equal(t, PayoutWithdrawalPlan, s.Payout.PayoutMode)
	assert.False(t, s.Payout.PayoutMode.IsAnnuity())
	assert.Equal(t, 25, s.PolicyContractYears())
}

func TestConfiguration_ApplyCustomer(t *testing.T) {
	cfg := Configuration{
		Customer: &Customer{Name: "Erika", Age: 45, ChurchTaxEnabled: true},
		Scenarios: []ScenarioInput{
			{Name: "inherits"},
			{Name: "explicit", Age: 30},
		},
	}
	cfg.ApplyCustomer()

	assert.Equal(t, 45, cfg.Scenarios[0].Age)
	assert.True(t, cfg.Scenarios[0].ChurchTaxEnabled)
	assert.Equal(t, 30, cfg.Scenarios[1].Age)
}

func TestCustomer_Validate(t *testing.T) {
	assert.NoError(t, (&Customer{Name: "Max", Age: 30}).Validate())
	assert.ErrorIs(t, (&Customer{Name: "  ", Age: 30}).Validate(), ErrCustomerNameRequired)
	assert.ErrorIs(t, (&Customer{Name: "Max"}).Validate(), ErrCustomerAgeRequired)
}
