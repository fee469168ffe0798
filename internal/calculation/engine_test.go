package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

type tariffMap map[string]domain.TariffRecord

func (m tariffMap) TariffByID(id string) (domain.TariffRecord, bool) {
	t, ok := m[id]
	return t, ok
}

type spyRecorder struct {
	simulations  int
	lastErr      error
	notConverged map[string]int
}

func (s *spyRecorder) ObserveSimulation(seconds float64, err error) {
	s.simulations++
	s.lastErr = err
}

func (s *spyRecorder) GrossUpNotConverged(vehicle string) {
	if s.notConverged == nil {
		s.notConverged = map[string]int{}
	}
	s.notConverged[vehicle]++
}

func baseScenario() domain.ScenarioInput {
	return domain.ScenarioInput{
		Name:                "Basis",
		Age:                 35,
		RetirementAgeBase:   67,
		RetirementAgePolicy: 67,
		MonthlyContribution: decimal.NewFromInt(500),
		StartCapital:        decimal.Zero,
		GrossReturnPA:       decimal.NewFromFloat(0.06),
		EquityFund:          true,
		Glidepath:           []domain.GlidePoint{{Year: 0, EquityShare: decimal.NewFromInt(1)}},
		Payout: domain.PayoutSettings{
			TargetNetWithdrawalMonthly: decimal.NewFromInt(1000),
			EndAge:                     88,
			PayoutMode:                 domain.PayoutWithdrawalPlan,
		},
	}
}

func TestSimulate_ZeroCostAccumulation(t *testing.T) {
	engine := NewProjectionEngine()

	result, err := engine.Simulate(baseScenario(), nil)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(result.Timeline), 385)
	retirement := result.Timeline[384]
	assert.Equal(t, 384, retirement.Month)
	assert.True(t, retirement.Age.Equal(decimal.NewFromInt(67)))

	s := result.Summary
	assert.True(t, s.DepotValueAtRetirement.GreaterThan(decimal.NewFromInt(192000)), "depot %s", s.DepotValueAtRetirement)
	assert.True(t, s.DepotValueAtRetirement.Equal(retirement.Depot))
	assert.True(t, s.DepotCostsPaid.IsZero())
	assert.True(t, s.PolicyCostsPaid.IsZero())
	// Without tariff costs both vehicles compound identically
	assert.True(t, s.PolicyValueAtRetirement.Equal(s.DepotValueAtRetirement))
}

func TestSimulate_OpeningPoint(t *testing.T) {
	input := baseScenario()
	input.StartCapital = decimal.NewFromInt(10000)

	result, err := NewProjectionEngine().Simulate(input, nil)
	require.NoError(t, err)

	first := result.Timeline[0]
	assert.Equal(t, 0, first.Month)
	assert.True(t, first.Age.Equal(decimal.NewFromInt(35)))
	assert.True(t, first.Depot.Equal(decimal.NewFromInt(10000)))
	assert.True(t, first.Policy.Equal(decimal.NewFromInt(10000)))

	for i := 1; i < len(result.Timeline); i++ {
		assert.Equal(t, result.Timeline[i-1].Month+1, result.Timeline[i].Month)
	}
}

func TestSimulate_TERReducesDepot(t *testing.T) {
	engine := NewProjectionEngine()

	zero, err := engine.Simulate(baseScenario(), nil)
	require.NoError(t, err)

	withTER := baseScenario()
	withTER.DepotCosts.TERPA = decimal.NewFromFloat(0.01)
	costly, err := engine.Simulate(withTER, nil)
	require.NoError(t, err)

	assert.True(t, costly.Summary.DepotValueAtRetirement.LessThan(zero.Summary.DepotValueAtRetirement))
	assert.True(t, costly.Summary.DepotCostsPaid.IsPositive())
	// Depot costs do not touch the policy
	assert.True(t, costly.Summary.PolicyValueAtRetirement.Equal(zero.Summary.PolicyValueAtRetirement))
}

func TestSimulate_FlatFeeAccumulates(t *testing.T) {
	input := baseScenario()
	input.GrossReturnPA = decimal.Zero
	input.DepotCosts.MonthlyFee = decimal.NewFromInt(2)

	result, err := NewProjectionEngine().Simulate(input, nil)
	require.NoError(t, err)

	assert.True(t, result.Summary.DepotCostsPaid.Equal(decimal.NewFromInt(768)), "got %s", result.Summary.DepotCostsPaid)
	assert.True(t, result.Summary.DepotValueAtRetirement.Equal(decimal.NewFromInt(192000-768)))
}

func TestSimulate_PolicyTariffCost(t *testing.T) {
	tariffs := tariffMap{"tarif-a": {ID: "tarif-a", Name: "Tarif A", EffectiveCostPA: decimal.NewFromFloat(0.015)}}
	engine := NewProjectionEngine(WithTariffSource(tariffs))

	known := baseScenario()
	id := "tarif-a"
	known.PolicyTariffID = &id
	withCost, err := engine.Simulate(known, nil)
	require.NoError(t, err)

	assert.True(t, withCost.Summary.PolicyValueAtRetirement.LessThan(withCost.Summary.DepotValueAtRetirement))
	assert.True(t, withCost.Summary.PolicyCostsPaid.IsPositive())

	unknown := baseScenario()
	missing := "does-not-exist"
	unknown.PolicyTariffID = &missing
	noCost, err := engine.Simulate(unknown, nil)
	require.NoError(t, err)

	assert.True(t, noCost.Summary.PolicyCostsPaid.IsZero())
	assert.True(t, noCost.Summary.PolicyValueAtRetirement.Equal(noCost.Summary.DepotValueAtRetirement))
}

func TestSimulate_EarlyTermination(t *testing.T) {
	input := domain.ScenarioInput{
		Name:                "Entnahme",
		Age:                 60,
		RetirementAgeBase:   65,
		RetirementAgePolicy: 65,
		StartCapital:        decimal.NewFromInt(10000),
		GrossReturnPA:       decimal.Zero,
		Payout: domain.PayoutSettings{
			TargetNetWithdrawalMonthly: decimal.NewFromInt(1000),
			EndAge:                     90,
		},
	}

	result, err := NewProjectionEngine().Simulate(input, nil)
	require.NoError(t, err)

	fullLength := 1 + input.MonthsToRetirement() + input.PayoutMonths()
	assert.Less(t, len(result.Timeline), fullLength)
	assert.LessOrEqual(t, len(result.Timeline), 1+60+11)

	last := result.LastPoint()
	assert.True(t, last.Depot.IsZero())
	assert.True(t, last.Policy.IsZero())
	assert.True(t, result.Summary.CapitalLastAgeDepot.LessThan(decimal.NewFromInt(90)))
	assert.True(t, result.Summary.CapitalLastAgeDepot.Equal(result.Summary.CapitalLastAgePolicy))
	// No gain above the cost basis, so no tax
	assert.True(t, result.Summary.DepotTaxesPaid.IsZero())
}

func TestSimulate_FullHorizonWithoutExhaustion(t *testing.T) {
	input := baseScenario()
	input.Payout.TargetNetWithdrawalMonthly = decimal.NewFromInt(100)

	result, err := NewProjectionEngine().Simulate(input, nil)
	require.NoError(t, err)

	assert.Len(t, result.Timeline, 1+384+252)
	assert.True(t, result.Summary.CapitalLastAgeDepot.Equal(decimal.NewFromInt(88)))
	assert.True(t, result.Summary.DepotTaxesPaid.IsPositive())
	assert.True(t, result.Summary.PolicyTaxesPaid.IsPositive())

	// Glidepath share is held through the payout phase
	assert.True(t, result.LastPoint().GlidepathEquity.Equal(decimal.NewFromInt(1)))
}

func TestSimulate_HalfIncomePrivilegeLowersPolicyTax(t *testing.T) {
	engine := NewProjectionEngine()

	eligible := baseScenario()
	eligible.Payout.TargetNetWithdrawalMonthly = decimal.NewFromInt(200)

	ineligible := eligible
	ineligible.RetirementAgePolicy = 61

	a, err := engine.Simulate(eligible, nil)
	require.NoError(t, err)
	b, err := engine.Simulate(ineligible, nil)
	require.NoError(t, err)

	assert.True(t, a.Summary.PolicyTaxesPaid.LessThan(b.Summary.PolicyTaxesPaid))
	// The depot is taxed identically in both runs
	assert.True(t, a.Summary.DepotTaxesPaid.Equal(b.Summary.DepotTaxesPaid))
}

func TestSimulate_TaxOverride(t *testing.T) {
	input := baseScenario()
	input.Payout.TargetNetWithdrawalMonthly = decimal.NewFromInt(500)
	noTax := domain.TaxParams{}

	result, err := NewProjectionEngine().Simulate(input, &noTax)
	require.NoError(t, err)

	assert.True(t, result.Summary.DepotTaxesPaid.IsZero())
	assert.True(t, result.Summary.PolicyTaxesPaid.IsZero())
}

func TestSimulate_GlidepathRecorded(t *testing.T) {
	input := baseScenario()
	input.Glidepath = []domain.GlidePoint{
		{Year: 0, EquityShare: decimal.NewFromInt(1)},
		{Year: 32, EquityShare: decimal.Zero},
	}

	result, err := NewProjectionEngine().Simulate(input, nil)
	require.NoError(t, err)

	assert.True(t, result.Timeline[0].GlidepathEquity.Equal(decimal.NewFromInt(1)))
	assert.True(t, result.Timeline[192].GlidepathEquity.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, result.Timeline[384].GlidepathEquity.IsZero())

	noGlide := baseScenario()
	noGlide.Glidepath = nil
	noGlide.EquityFund = false
	fallback, err := NewProjectionEngine().Simulate(noGlide, nil)
	require.NoError(t, err)
	assert.True(t, fallback.Timeline[12].GlidepathEquity.Equal(decimal.RequireFromString("0.5")))
}

func TestSimulate_DegenerateAges(t *testing.T) {
	input := baseScenario()
	input.Age = 70

	t.Run("lenient", func(t *testing.T) {
		result, err := NewProjectionEngine().Simulate(input, nil)
		require.NoError(t, err)
		assert.True(t, result.Summary.DepotValueAtRetirement.IsZero())
		assert.Equal(t, 0, result.Timeline[0].Month)
	})

	t.Run("strict retirement before age", func(t *testing.T) {
		_, err := NewProjectionEngine(WithStrictAges()).Simulate(input, nil)
		assert.ErrorIs(t, err, ErrRetirementBeforeCurrentAge)
	})

	t.Run("strict payout end before retirement", func(t *testing.T) {
		bad := baseScenario()
		bad.Payout.EndAge = 60
		_, err := NewProjectionEngine(WithStrictAges()).Simulate(bad, nil)
		assert.ErrorIs(t, err, ErrPayoutEndBeforeRetirement)
	})
}

func TestSimulate_RecordsMetrics(t *testing.T) {
	spy := &spyRecorder{}
	engine := NewProjectionEngine(WithRecorder(spy), WithEngineLogger(nil))

	_, err := engine.Simulate(baseScenario(), nil)
	require.NoError(t, err)

	// 100% withholding pushes the root beyond the search bracket
	confiscatory := domain.TaxParams{WithholdingTaxRate: decimal.NewFromInt(1)}
	input := baseScenario()
	input.EquityFund = false
	_, err = engine.Simulate(input, &confiscatory)
	require.NoError(t, err)

	assert.Equal(t, 2, spy.simulations)
	assert.NoError(t, spy.lastErr)
	assert.Positive(t, spy.notConverged["depot"])
}

func TestMonthlyRate(t *testing.T) {
	assert.True(t, MonthlyRate(decimal.Zero).IsZero())
	assert.True(t, MonthlyRate(decimal.NewFromInt(-1)).Equal(decimal.NewFromInt(-1)))

	r := MonthlyRate(decimal.NewFromFloat(0.06))
	f, _ := r.Float64()
	assert.InDelta(t, 0.004867551, f, 1e-9)
}

func TestTimelineCapacity(t *testing.T) {
	assert.Equal(t, 1+384+252, timelineCapacity(baseScenario()))

	far := baseScenario()
	far.Payout.EndAge = 1 << 50
	assert.Equal(t, maxTimelineHint, timelineCapacity(far))

	assert.NotPanics(t, func() { newSimulationState(far, nil) })
}
