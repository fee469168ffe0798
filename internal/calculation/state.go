package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/vorsorge/depotvergleich/pkg/dateutil"
)

// Phase is the state of a simulation run
type Phase int

const (
	PhaseAccumulation Phase = iota
	PhaseDecumulation
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseAccumulation:
		return "accumulation"
	case PhaseDecumulation:
		return "decumulation"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// monthlyRates holds the per-month equivalents of the annual rates of a run
type monthlyRates struct {
	grossReturn decimal.Decimal
	depotCost   decimal.Decimal
	depotFee    decimal.Decimal
	policyCost  decimal.Decimal
}

// simulationState is owned by a single Simulate call
type simulationState struct {
	input domain.ScenarioInput
	curve []domain.GlidePoint
	phase Phase
	month int

	depot  decimal.Decimal
	policy decimal.Decimal
	// Accumulation-phase contributions plus start capital, never reduced by withdrawals
	costBasis decimal.Decimal

	depotCostsPaid  decimal.Decimal
	policyCostsPaid decimal.Decimal
	depotTaxesPaid  decimal.Decimal
	policyTaxesPaid decimal.Decimal

	timeline []domain.MonthlyPoint
}

func newSimulationState(input domain.ScenarioInput, curve []domain.GlidePoint) *simulationState {
	st := &simulationState{
		input:     input,
		curve:     curve,
		phase:     PhaseAccumulation,
		depot:     input.StartCapital,
		policy:    input.StartCapital,
		costBasis: input.StartCapital,
		timeline:  make([]domain.MonthlyPoint, 0, timelineCapacity(input)),
	}
	st.record(st.depot, st.policy, EquityShareForYear(curve, 0, input.EquityFund))
	return st
}

// maxTimelineHint bounds the up-front allocation; longer runs grow the slice
const maxTimelineHint = 1 + 120*12

func timelineCapacity(input domain.ScenarioInput) int {
	n := 1 + input.MonthsToRetirement() + input.PayoutMonths()
	if n <= 0 || n > maxTimelineHint {
		return maxTimelineHint
	}
	return n
}

func (st *simulationState) record(depot, policy, share decimal.Decimal) {
	st.timeline = append(st.timeline, domain.MonthlyPoint{
		Month:           st.month,
		Age:             dateutil.FractionalAge(st.input.Age, st.month),
		Depot:           depot,
		Policy:          policy,
		GlidepathEquity: share,
	})
}

// accumulate advances one contribution month
func (st *simulationState) accumulate(r monthlyRates) {
	st.month++
	contribution := st.input.MonthlyContribution

	st.depot = st.depot.Add(contribution)
	st.policy = st.policy.Add(contribution)
	st.costBasis = st.costBasis.Add(contribution)

	// Growth and running costs are both taken on the post-contribution balance
	growth := st.depot.Mul(r.grossReturn)
	costs := st.depot.Mul(r.depotCost).Add(r.depotFee)
	st.depot = st.depot.Add(growth).Sub(costs)
	st.depotCostsPaid = st.depotCostsPaid.Add(costs)

	// Policy costs are netted into the return
	st.policy = st.policy.Add(st.policy.Mul(r.grossReturn.Sub(r.policyCost)))
	st.policyCostsPaid = st.policyCostsPaid.Add(st.policy.Mul(r.policyCost))

	share := EquityShareForYear(st.curve, dateutil.YearOfMonth(st.month), st.input.EquityFund)
	st.record(st.depot, st.policy, share)
}

// withdraw advances one payout month with already solved gross amounts
func (st *simulationState) withdraw(depotGross, depotTax, policyGross, policyTax decimal.Decimal) {
	st.month++

	st.depot = st.depot.Sub(depotGross)
	st.policy = st.policy.Sub(policyGross)
	st.depotTaxesPaid = st.depotTaxesPaid.Add(depotTax)
	st.policyTaxesPaid = st.policyTaxesPaid.Add(policyTax)

	st.record(
		decimal.Max(decimalZero, st.depot),
		decimal.Max(decimalZero, st.policy),
		FinalEquityShare(st.curve, st.input.EquityFund),
	)
}

// exhausted reports whether both vehicles have run out of capital
func (st *simulationState) exhausted() bool {
	return st.depot.LessThanOrEqual(decimalZero) && st.policy.LessThanOrEqual(decimalZero)
}

func (st *simulationState) result() *domain.SimulationResult {
	retirement := st.timeline[st.input.MonthsToRetirement()]
	last := st.timeline[len(st.timeline)-1]
	lastAge := dateutil.FractionalAge(st.input.Age, last.Month)

	return &domain.SimulationResult{
		Summary: domain.ResultSummary{
			DepotValueAtRetirement:  retirement.Depot,
			PolicyValueAtRetirement: retirement.Policy,
			DepotCostsPaid:          st.depotCostsPaid,
			PolicyCostsPaid:         st.policyCostsPaid,
			DepotTaxesPaid:          st.depotTaxesPaid,
			PolicyTaxesPaid:         st.policyTaxesPaid,
			CapitalLastAgeDepot:     lastAge,
			CapitalLastAgePolicy:    lastAge,
		},
		Timeline: st.timeline,
	}
}
