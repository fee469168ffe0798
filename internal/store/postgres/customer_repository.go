package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/vorsorge/depotvergleich/internal/store"
)

// CustomerRepository persists customers.
type CustomerRepository struct {
	db    DBTX
	table string
}

// CustomerOption configures the repository.
type CustomerOption func(*CustomerRepository)

// WithCustomersTable overrides the customers table name.
func WithCustomersTable(table string) CustomerOption {
	return func(r *CustomerRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewCustomerRepository constructs a repository.
func NewCustomerRepository(db DBTX, opts ...CustomerOption) *CustomerRepository {
	repo := &CustomerRepository{db: db, table: DefaultCustomersTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if r == nil || r.db == nil {
		return errors.New("customer repository: nil db")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	var income decimal.NullDecimal
	if c.AnnualIncome != nil {
		income = decimal.NewNullDecimal(*c.AnnualIncome)
	}
	var status sql.NullString
	if c.MaritalStatus != nil {
		status = sql.NullString{String: *c.MaritalStatus, Valid: true}
	}

	query := fmt.Sprintf(`
INSERT INTO %s (name, age, annual_income, marital_status, church_tax_enabled)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`, r.table)
	return r.db.QueryRowContext(ctx, query, c.Name, c.Age, income, status, c.ChurchTaxEnabled).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("customer repository: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, name, age, annual_income, marital_status, church_tax_enabled, created_at
FROM %s
WHERE id = $1`, r.table)
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("customer repository: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, name, age, annual_income, marital_status, church_tax_enabled, created_at
FROM %s
ORDER BY created_at DESC, id DESC`, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c      domain.Customer
		income decimal.NullDecimal
		status sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Age, &income, &status, &c.ChurchTaxEnabled, &c.CreatedAt); err != nil {
		return nil, err
	}
	if income.Valid {
		v := income.Decimal
		c.AnnualIncome = &v
	}
	if status.Valid {
		v := status.String
		c.MaritalStatus = &v
	}
	return &c, nil
}
