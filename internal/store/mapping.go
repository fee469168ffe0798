package store

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

// payoutModeRecord is the payout mode spelling stored for withdrawal plans
const payoutModeRecord = "capital_withdrawal_plan"

// DefaultScenarioRecord is the scenario a new customer starts with
func DefaultScenarioRecord(customerID int64, defaultTariffID string) ScenarioRecord {
	var tariffID *string
	if defaultTariffID != "" {
		tariffID = &defaultTariffID
	}
	return ScenarioRecord{
		CustomerID:                       customerID,
		RetirementAgeBase:                67,
		RetirementAgePolicy:              67,
		MonthlyContribution:              decimal.NewFromInt(500),
		StartCapital:                     decimal.Zero,
		GrossReturnPA:                    decimal.NewFromFloat(0.06),
		InflationTargetPA:                decimal.NewFromFloat(0.02),
		InflationCalcPA:                  decimal.Zero,
		EquityFund:                       true,
		GlidepathJSON:                    EncodeGlidepath([]domain.GlidePoint{{Year: 0, EquityShare: decimal.NewFromInt(1)}}),
		DepotTERPA:                       decimal.Zero,
		DepotAUMFeePA:                    decimal.Zero,
		DepotMonthlyFee:                  decimal.Zero,
		DepotSwitchesTotal:               3,
		PolicyTariffID:                   tariffID,
		PayoutTargetNetWithdrawalMonthly: decimal.NewFromInt(1000),
		PayoutEndAge:                     88,
		PayoutMode:                       payoutModeRecord,
		AllowDeferralYears:               0,
	}
}

type glidePointJSON struct {
	Year        int             `json:"year"`
	EquityShare decimal.Decimal `json:"equity_share"`
}

// DecodeGlidepath parses stored glidepath JSON. Anything that is not a valid
// array of control points yields an empty list.
func DecodeGlidepath(raw string) []domain.GlidePoint {
	var points []glidePointJSON
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return []domain.GlidePoint{}
	}
	out := make([]domain.GlidePoint, 0, len(points))
	for _, p := range points {
		out = append(out, domain.GlidePoint{Year: p.Year, EquityShare: p.EquityShare})
	}
	return out
}

// EncodeGlidepath serializes control points with numeric shares
func EncodeGlidepath(points []domain.GlidePoint) string {
	out := make([]glidePointJSON, 0, len(points))
	for _, p := range points {
		out = append(out, glidePointJSON{Year: p.Year, EquityShare: p.EquityShare})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ToScenarioInput combines a customer with its stored scenario for the engine
func ToScenarioInput(c *domain.Customer, rec *ScenarioRecord) domain.ScenarioInput {
	var tariffID *string
	if rec.PolicyTariffID != nil && *rec.PolicyTariffID != "" {
		id := *rec.PolicyTariffID
		tariffID = &id
	}

	mode, err := domain.ParsePayoutMode(rec.PayoutMode)
	if err != nil {
		mode = domain.PayoutWithdrawalPlan
	}

	return domain.ScenarioInput{
		Name:                c.Name,
		Age:                 c.Age,
		ChurchTaxEnabled:    c.ChurchTaxEnabled,
		RetirementAgeBase:   rec.RetirementAgeBase,
		RetirementAgePolicy: rec.RetirementAgePolicy,
		MonthlyContribution: rec.MonthlyContribution,
		StartCapital:        rec.StartCapital,
		GrossReturnPA:       rec.GrossReturnPA,
		InflationTargetPA:   rec.InflationTargetPA,
		InflationCalcPA:     rec.InflationCalcPA,
		EquityFund:          rec.EquityFund,
		Glidepath:           DecodeGlidepath(rec.GlidepathJSON),
		DepotCosts: domain.DepotCosts{
			TERPA:         rec.DepotTERPA,
			AUMFeePA:      rec.DepotAUMFeePA,
			MonthlyFee:    rec.DepotMonthlyFee,
			SwitchesTotal: rec.DepotSwitchesTotal,
		},
		PolicyTariffID: tariffID,
		Payout: domain.PayoutSettings{
			TargetNetWithdrawalMonthly: rec.PayoutTargetNetWithdrawalMonthly,
			EndAge:                     rec.PayoutEndAge,
			PayoutMode:                 mode,
			AllowDeferralYears:         rec.AllowDeferralYears,
		},
	}
}

// ApplyScenarioInput writes the plan parameters of input into rec, keeping its identity
func ApplyScenarioInput(rec *ScenarioRecord, input domain.ScenarioInput) {
	rec.RetirementAgeBase = input.RetirementAgeBase
	rec.RetirementAgePolicy = input.RetirementAgePolicy
	rec.MonthlyContribution = input.MonthlyContribution
	rec.StartCapital = input.StartCapital
	rec.GrossReturnPA = input.GrossReturnPA
	rec.InflationTargetPA = input.InflationTargetPA
	rec.InflationCalcPA = input.InflationCalcPA
	rec.EquityFund = input.EquityFund
	rec.GlidepathJSON = EncodeGlidepath(input.Glidepath)
	rec.DepotTERPA = input.DepotCosts.TERPA
	rec.DepotAUMFeePA = input.DepotCosts.AUMFeePA
	rec.DepotMonthlyFee = input.DepotCosts.MonthlyFee
	rec.DepotSwitchesTotal = input.DepotCosts.SwitchesTotal
	rec.PolicyTariffID = nil
	if id := input.TariffID(); id != "" {
		rec.PolicyTariffID = &id
	}
	rec.PayoutTargetNetWithdrawalMonthly = input.Payout.TargetNetWithdrawalMonthly
	rec.PayoutEndAge = input.Payout.EndAge
	rec.PayoutMode = payoutModeRecord
	if input.Payout.PayoutMode.IsAnnuity() {
		rec.PayoutMode = string(domain.PayoutAnnuity)
	}
	rec.AllowDeferralYears = input.Payout.AllowDeferralYears
}
