// Package store persists customers and their scenario records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

var ErrNotFound = errors.New("store: not found")

// ScenarioRecord is the flat storage row of a customer's scenario.
// The glidepath is kept as JSON text.
type ScenarioRecord struct {
	ID                               int64           `json:"id"`
	CustomerID                       int64           `json:"customer_id"`
	RetirementAgeBase                int             `json:"retirement_age_base"`
	RetirementAgePolicy              int             `json:"retirement_age_policy"`
	MonthlyContribution              decimal.Decimal `json:"monthly_contribution"`
	StartCapital                     decimal.Decimal `json:"start_capital"`
	GrossReturnPA                    decimal.Decimal `json:"gross_return_pa"`
	InflationTargetPA                decimal.Decimal `json:"inflation_target_pa"`
	InflationCalcPA                  decimal.Decimal `json:"inflation_calc_pa"`
	EquityFund                       bool            `json:"equity_fund"`
	GlidepathJSON                    string          `json:"glidepath_json"`
	DepotTERPA                       decimal.Decimal `json:"depot_ter_pa"`
	DepotAUMFeePA                    decimal.Decimal `json:"depot_aum_fee_pa"`
	DepotMonthlyFee                  decimal.Decimal `json:"depot_monthly_fee"`
	DepotSwitchesTotal               int             `json:"depot_switches_total"`
	PolicyTariffID                   *string         `json:"policy_tariff_id"`
	PayoutTargetNetWithdrawalMonthly decimal.Decimal `json:"payout_target_net_withdrawal_monthly"`
	PayoutEndAge                     int             `json:"payout_end_age"`
	PayoutMode                       string          `json:"payout_mode"`
	AllowDeferralYears               int             `json:"allow_deferral_years"`
	CreatedAt                        time.Time       `json:"created_at"`
}

// CustomerRepository stores customers
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	// ListCustomers returns all customers, newest first
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// ScenarioRepository stores one scenario record per customer
type ScenarioRepository interface {
	GetScenarioByCustomer(ctx context.Context, customerID int64) (*ScenarioRecord, error)
	CreateScenario(ctx context.Context, rec *ScenarioRecord) error
	UpdateScenario(ctx context.Context, rec *ScenarioRecord) error
}

// Store combines both repositories
type Store interface {
	CustomerRepository
	ScenarioRepository
}

// GetOrCreateScenario returns the customer's scenario, inserting the default one on first access
func GetOrCreateScenario(ctx context.Context, repo ScenarioRepository, customerID int64, defaultTariffID string) (*ScenarioRecord, error) {
	rec, err := repo.GetScenarioByCustomer(ctx, customerID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	def := DefaultScenarioRecord(customerID, defaultTariffID)
	if err := repo.CreateScenario(ctx, &def); err != nil {
		return nil, err
	}
	return repo.GetScenarioByCustomer(ctx, customerID)
}
