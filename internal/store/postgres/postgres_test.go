package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/vorsorge/depotvergleich/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestStore_CustomerAndScenario(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := NewStore(db)

	income := decimal.NewFromInt(52000)
	c := &domain.Customer{Name: "Integration Kunde", Age: 41, AnnualIncome: &income, ChurchTaxEnabled: true}
	require.NoError(t, s.CreateCustomer(ctx, c))
	t.Cleanup(func() { _, _ = db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", c.ID) })

	got, err := s.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
	require.NotNil(t, got.AnnualIncome)
	assert.True(t, got.AnnualIncome.Equal(income))
	assert.Nil(t, got.MaritalStatus)

	list, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	rec, err := store.GetOrCreateScenario(ctx, s, c.ID, "fp-netto-basis")
	require.NoError(t, err)
	assert.Equal(t, 67, rec.RetirementAgeBase)

	rec.MonthlyContribution = decimal.NewFromInt(800)
	rec.PolicyTariffID = nil
	require.NoError(t, s.UpdateScenario(ctx, rec))

	back, err := s.GetScenarioByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, back.MonthlyContribution.Equal(decimal.NewFromInt(800)))
	assert.Nil(t, back.PolicyTariffID)

	_, err = s.GetCustomer(ctx, -1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
