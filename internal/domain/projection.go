package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyPoint is one entry of the simulation timeline
type MonthlyPoint struct {
	Month           int             `json:"month"`
	Age             decimal.Decimal `json:"age"`
	Depot           decimal.Decimal `json:"depot"`
	Policy          decimal.Decimal `json:"policy"`
	GlidepathEquity decimal.Decimal `json:"glidepath_equity"`
}

// IsYearEnd reports whether the point closes a full simulated year
func (p MonthlyPoint) IsYearEnd() bool {
	return p.Month%12 == 0
}

// ResultSummary condenses one simulation run
type ResultSummary struct {
	DepotValueAtRetirement  decimal.Decimal `json:"depot_value_at_retirement"`
	PolicyValueAtRetirement decimal.Decimal `json:"policy_value_at_retirement"`
	DepotCostsPaid          decimal.Decimal `json:"depot_costs_paid"`
	PolicyCostsPaid         decimal.Decimal `json:"policy_costs_paid"`
	DepotTaxesPaid          decimal.Decimal `json:"depot_taxes_paid"`
	PolicyTaxesPaid         decimal.Decimal `json:"policy_taxes_paid"`

	// Both read the last timeline entry
	CapitalLastAgeDepot  decimal.Decimal `json:"capital_last_age_depot"`
	CapitalLastAgePolicy decimal.Decimal `json:"capital_last_age_policy"`
}

// SimulationResult owns the summary and the full ordered timeline of one run
type SimulationResult struct {
	Summary  ResultSummary  `json:"summary"`
	Timeline []MonthlyPoint `json:"timeline"`
}

// RetirementMonth returns the index of the retirement-transition point
func (r *SimulationResult) RetirementMonth(input ScenarioInput) int {
	n := input.MonthsToRetirement()
	if n >= len(r.Timeline) {
		return len(r.Timeline) - 1
	}
	return n
}

// LastPoint returns the final timeline entry
func (r *SimulationResult) LastPoint() MonthlyPoint {
	if len(r.Timeline) == 0 {
		return MonthlyPoint{}
	}
	return r.Timeline[len(r.Timeline)-1]
}

// Report bundles a simulation result with the context needed to render it
type Report struct {
	CustomerName string            `json:"customer_name"`
	ScenarioName string            `json:"scenario_name"`
	TariffName   string            `json:"tariff_name,omitempty"`
	Input        ScenarioInput     `json:"input"`
	Result       *SimulationResult `json:"result"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
