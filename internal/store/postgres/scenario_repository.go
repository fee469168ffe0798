package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vorsorge/depotvergleich/internal/store"
)

// ScenarioRepository persists scenario records, one per customer.
type ScenarioRepository struct {
	db    DBTX
	table string
}

// ScenarioOption configures the repository.
type ScenarioOption func(*ScenarioRepository)

// WithScenariosTable overrides the scenarios table name.
func WithScenariosTable(table string) ScenarioOption {
	return func(r *ScenarioRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewScenarioRepository constructs a repository.
func NewScenarioRepository(db DBTX, opts ...ScenarioOption) *ScenarioRepository {
	repo := &ScenarioRepository{db: db, table: DefaultScenariosTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

const scenarioColumns = `retirement_age_base, retirement_age_policy, monthly_contribution, start_capital,
	gross_return_pa, inflation_target_pa, inflation_calc_pa, equity_fund, glidepath_json,
	depot_ter_pa, depot_aum_fee_pa, depot_monthly_fee, depot_switches_total, policy_tariff_id,
	payout_target_net_withdrawal_monthly, payout_end_age, payout_mode, allow_deferral_years`

func scenarioArgs(rec *store.ScenarioRecord) []any {
	var tariff sql.NullString
	if rec.PolicyTariffID != nil && *rec.PolicyTariffID != "" {
		tariff = sql.NullString{String: *rec.PolicyTariffID, Valid: true}
	}
	return []any{
		rec.RetirementAgeBase, rec.RetirementAgePolicy, rec.MonthlyContribution, rec.StartCapital,
		rec.GrossReturnPA, rec.InflationTargetPA, rec.InflationCalcPA, rec.EquityFund, rec.GlidepathJSON,
		rec.DepotTERPA, rec.DepotAUMFeePA, rec.DepotMonthlyFee, rec.DepotSwitchesTotal, tariff,
		rec.PayoutTargetNetWithdrawalMonthly, rec.PayoutEndAge, rec.PayoutMode, rec.AllowDeferralYears,
	}
}

func (r *ScenarioRepository) GetScenarioByCustomer(ctx context.Context, customerID int64) (*store.ScenarioRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("scenario repository: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, customer_id, %s, created_at
FROM %s
WHERE customer_id = $1`, scenarioColumns, r.table)

	var (
		rec    store.ScenarioRecord
		tariff sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&rec.ID, &rec.CustomerID,
		&rec.RetirementAgeBase, &rec.RetirementAgePolicy, &rec.MonthlyContribution, &rec.StartCapital,
		&rec.GrossReturnPA, &rec.InflationTargetPA, &rec.InflationCalcPA, &rec.EquityFund, &rec.GlidepathJSON,
		&rec.DepotTERPA, &rec.DepotAUMFeePA, &rec.DepotMonthlyFee, &rec.DepotSwitchesTotal, &tariff,
		&rec.PayoutTargetNetWithdrawalMonthly, &rec.PayoutEndAge, &rec.PayoutMode, &rec.AllowDeferralYears,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if tariff.Valid {
		v := tariff.String
		rec.PolicyTariffID = &v
	}
	return &rec, nil
}

func (r *ScenarioRepository) CreateScenario(ctx context.Context, rec *store.ScenarioRecord) error {
	if r == nil || r.db == nil {
		return errors.New("scenario repository: nil db")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (customer_id, %s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING id, created_at`, r.table, scenarioColumns)
	args := append([]any{rec.CustomerID}, scenarioArgs(rec)...)
	return r.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt)
}

func (r *ScenarioRepository) UpdateScenario(ctx context.Context, rec *store.ScenarioRecord) error {
	if r == nil || r.db == nil {
		return errors.New("scenario repository: nil db")
	}
	query := fmt.Sprintf(`
UPDATE %s SET
	retirement_age_base = $2, retirement_age_policy = $3, monthly_contribution = $4, start_capital = $5,
	gross_return_pa = $6, inflation_target_pa = $7, inflation_calc_pa = $8, equity_fund = $9, glidepath_json = $10,
	depot_ter_pa = $11, depot_aum_fee_pa = $12, depot_monthly_fee = $13, depot_switches_total = $14, policy_tariff_id = $15,
	payout_target_net_withdrawal_monthly = $16, payout_end_age = $17, payout_mode = $18, allow_deferral_years = $19
WHERE id = $1`, r.table)
	args := append([]any{rec.ID}, scenarioArgs(rec)...)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Store joins both repositories over one connection
type Store struct {
	*CustomerRepository
	*ScenarioRepository
}

var _ store.Store = (*Store)(nil)

// NewStore builds a Store over db
func NewStore(db DBTX) *Store {
	return &Store{
		CustomerRepository: NewCustomerRepository(db),
		ScenarioRepository: NewScenarioRepository(db),
	}
}
