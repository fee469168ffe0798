// Package postgres implements the store repositories on database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBTX is satisfied by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	DefaultCustomersTable = "customers"
	DefaultScenariosTable = "scenarios"
)

// Open connects using the pgx stdlib driver and verifies the connection
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Migrate creates the customer and scenario tables when missing
func Migrate(ctx context.Context, db DBTX) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	annual_income NUMERIC,
	marital_status TEXT,
	church_tax_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, DefaultCustomersTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	customer_id BIGINT NOT NULL UNIQUE REFERENCES %s(id) ON DELETE CASCADE,
	retirement_age_base INTEGER NOT NULL,
	retirement_age_policy INTEGER NOT NULL,
	monthly_contribution NUMERIC NOT NULL,
	start_capital NUMERIC NOT NULL,
	gross_return_pa NUMERIC NOT NULL,
	inflation_target_pa NUMERIC NOT NULL,
	inflation_calc_pa NUMERIC NOT NULL,
	equity_fund BOOLEAN NOT NULL,
	glidepath_json TEXT NOT NULL,
	depot_ter_pa NUMERIC NOT NULL,
	depot_aum_fee_pa NUMERIC NOT NULL,
	depot_monthly_fee NUMERIC NOT NULL,
	depot_switches_total INTEGER NOT NULL,
	policy_tariff_id TEXT,
	payout_target_net_withdrawal_monthly NUMERIC NOT NULL,
	payout_end_age INTEGER NOT NULL,
	payout_mode TEXT NOT NULL DEFAULT 'capital_withdrawal_plan',
	allow_deferral_years INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, DefaultScenariosTable, DefaultCustomersTable),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
