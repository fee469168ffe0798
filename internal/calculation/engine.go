package calculation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

var (
	ErrRetirementBeforeCurrentAge = errors.New("retirement age is before current age")
	ErrPayoutEndBeforeRetirement  = errors.New("payout end age is before retirement age")
)

// TariffSource resolves policy tariffs by id
type TariffSource interface {
	TariffByID(id string) (domain.TariffRecord, bool)
}

// ProjectionEngine runs the month-by-month Depot vs. Fondspolice projection.
// It holds no per-run state and is safe for concurrent use.
type ProjectionEngine struct {
	tariffs     TariffSource
	taxDefaults domain.TaxParams
	tolerance   decimal.Decimal
	strictAges  bool
	logger      Logger
	recorder    Recorder
}

// EngineOption configures a ProjectionEngine
type EngineOption func(*ProjectionEngine)

// WithEngineLogger sets the logger. A nil logger selects the no-op logger.
func WithEngineLogger(l Logger) EngineOption {
	return func(e *ProjectionEngine) {
		if l == nil {
			l = NopLogger{}
		}
		e.logger = l
	}
}

// WithTariffSource sets where policy tariffs are looked up
func WithTariffSource(src TariffSource) EngineOption {
	return func(e *ProjectionEngine) { e.tariffs = src }
}

// WithTaxDefaults replaces the tax parameters used when a run has no override
func WithTaxDefaults(p domain.TaxParams) EngineOption {
	return func(e *ProjectionEngine) { e.taxDefaults = p }
}

// WithGrossUpTolerance sets the absolute tolerance of the gross-up search
func WithGrossUpTolerance(tol decimal.Decimal) EngineOption {
	return func(e *ProjectionEngine) {
		if tol.IsPositive() {
			e.tolerance = tol
		}
	}
}

// WithStrictAges rejects degenerate age combinations instead of simulating empty phases
func WithStrictAges() EngineOption {
	return func(e *ProjectionEngine) { e.strictAges = true }
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) EngineOption {
	return func(e *ProjectionEngine) {
		if r == nil {
			r = NopRecorder{}
		}
		e.recorder = r
	}
}

// NewProjectionEngine creates an engine with bundled tax defaults and no tariffs
func NewProjectionEngine(opts ...EngineOption) *ProjectionEngine {
	e := &ProjectionEngine{
		taxDefaults: DefaultTaxParams(),
		tolerance:   DefaultGrossUpTolerance,
		logger:      NopLogger{},
		recorder:    NopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TaxDefaults returns the parameters used when Simulate receives no override
func (e *ProjectionEngine) TaxDefaults() domain.TaxParams {
	return e.taxDefaults
}

// Simulate projects one scenario. override replaces the default tax parameters when non-nil.
func (e *ProjectionEngine) Simulate(input domain.ScenarioInput, override *domain.TaxParams) (*domain.SimulationResult, error) {
	start := time.Now()
	result, err := e.simulate(input, override)
	e.recorder.ObserveSimulation(time.Since(start).Seconds(), err)
	return result, err
}

func (e *ProjectionEngine) simulate(input domain.ScenarioInput, override *domain.TaxParams) (*domain.SimulationResult, error) {
	if err := e.checkAges(input); err != nil {
		return nil, err
	}

	params := e.taxDefaults
	if override != nil {
		params = *override
	}
	tax := NewTaxCalculator(params, input.ChurchTaxEnabled)

	curve := InterpolateGlidepath(input.Glidepath, input.AccumulationYears())
	rates := monthlyRates{
		grossReturn: MonthlyRate(input.GrossReturnPA),
		depotCost:   MonthlyRate(input.DepotCosts.TERPA.Add(input.DepotCosts.AUMFeePA)),
		depotFee:    input.DepotCosts.MonthlyFee,
		policyCost:  MonthlyRate(e.policyCostPA(input)),
	}

	st := newSimulationState(input, curve)

	monthsToRetirement := input.MonthsToRetirement()
	for m := 1; m <= monthsToRetirement; m++ {
		st.accumulate(rates)
	}

	st.phase = PhaseDecumulation
	e.logger.Debugf("scenario %q: %s after %d months, depot=%s policy=%s",
		input.Name, st.phase, monthsToRetirement, st.depot.StringFixed(2), st.policy.StringFixed(2))

	target := input.Payout.TargetNetWithdrawalMonthly
	warned := map[string]bool{}
	payoutMonths := input.PayoutMonths()
	for m := 1; m <= payoutMonths; m++ {
		depotTaxer := DepotSale{Balance: st.depot, CostBasis: st.costBasis, EquityFund: input.EquityFund, Tax: tax}
		policyTaxer := NewPolicyPayout(input, st.policy, st.costBasis, tax)

		depotGross, depotTax := e.grossUp(input, target, depotTaxer, st.month+1, warned)
		policyGross, policyTax := e.grossUp(input, target, policyTaxer, st.month+1, warned)

		st.withdraw(depotGross, depotTax, policyGross, policyTax)

		if st.exhausted() {
			e.logger.Debugf("scenario %q: both vehicles exhausted at month %d", input.Name, st.month)
			break
		}
	}

	st.phase = PhaseTerminal
	return st.result(), nil
}

// grossUp solves one vehicle's withdrawal and returns gross amount and tax
func (e *ProjectionEngine) grossUp(input domain.ScenarioInput, target decimal.Decimal, taxer PayoutTaxer, month int, warned map[string]bool) (decimal.Decimal, decimal.Decimal) {
	res := SolveGrossUp(target, NetFunc(taxer), e.tolerance)
	if !res.Converged {
		e.recorder.GrossUpNotConverged(taxer.Name())
		if !warned[taxer.Name()] {
			warned[taxer.Name()] = true
			e.logger.Warnf("scenario %q: %s gross-up did not converge at month %d, using upper bound %s",
				input.Name, taxer.Name(), month, res.Gross.StringFixed(2))
		}
	}
	return res.Gross, res.Gross.Sub(res.Net)
}

func (e *ProjectionEngine) policyCostPA(input domain.ScenarioInput) decimal.Decimal {
	id := input.TariffID()
	if id == "" || e.tariffs == nil {
		return decimalZero
	}
	tariff, ok := e.tariffs.TariffByID(id)
	if !ok {
		e.logger.Warnf("scenario %q: unknown policy tariff %q, assuming no policy cost", input.Name, id)
		return decimalZero
	}
	return tariff.EffectiveCostPA
}

func (e *ProjectionEngine) checkAges(input domain.ScenarioInput) error {
	if !e.strictAges {
		return nil
	}
	if input.RetirementAgeBase < input.Age {
		return fmt.Errorf("%w: retirement_age_base %d, age %d", ErrRetirementBeforeCurrentAge, input.RetirementAgeBase, input.Age)
	}
	if input.Payout.EndAge < input.RetirementAgeBase {
		return fmt.Errorf("%w: end_age %d, retirement_age_base %d", ErrPayoutEndBeforeRetirement, input.Payout.EndAge, input.RetirementAgeBase)
	}
	return nil
}

// MonthlyRate converts an annual rate to its compounding monthly equivalent (1+pa)^(1/12)-1.
// Rates at or below -100% map to -1.
func MonthlyRate(pa decimal.Decimal) decimal.Decimal {
	f, _ := pa.Float64()
	if f <= -1 {
		return decimalOne.Neg()
	}
	return decimal.NewFromFloat(math.Pow(1+f, 1.0/12) - 1)
}
