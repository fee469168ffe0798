package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

func TestDecodeGlidepath(t *testing.T) {
	testCases := []struct {
		desc     string
		raw      string
		expected int
	}{
		{desc: "array", raw: `[{"year":0,"equity_share":1},{"year":10,"equity_share":0.5}]`, expected: 2},
		{desc: "string shares", raw: `[{"year":0,"equity_share":"0.8"}]`, expected: 1},
		{desc: "object", raw: `{"year":0}`, expected: 0},
		{desc: "malformed", raw: `[{`, expected: 0},
		{desc: "empty", raw: ``, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			points := DecodeGlidepath(tc.raw)
			assert.NotNil(t, points)
			assert.Len(t, points, tc.expected)
		})
	}
}

func TestEncodeGlidepath(t *testing.T) {
	raw := EncodeGlidepath([]domain.GlidePoint{{Year: 5, EquityShare: decimal.RequireFromString("0.25")}})
	assert.JSONEq(t, `[{"year":5,"equity_share":"0.25"}]`, raw)

	back := DecodeGlidepath(raw)
	require.Len(t, back, 1)
	assert.Equal(t, 5, back[0].Year)
	assert.True(t, back[0].EquityShare.Equal(decimal.RequireFromString("0.25")))

	assert.Equal(t, "[]", EncodeGlidepath(nil))
}

func TestToScenarioInput(t *testing.T) {
	c := &domain.Customer{ID: 7, Name: "Erika Musterfrau", Age: 42, ChurchTaxEnabled: true}
	rec := DefaultScenarioRecord(c.ID, "")
	empty := ""
	rec.PolicyTariffID = &empty

	input := ToScenarioInput(c, &rec)
	assert.Equal(t, "Erika Musterfrau", input.Name)
	assert.Equal(t, 42, input.Age)
	assert.True(t, input.ChurchTaxEnabled)
	assert.Nil(t, input.PolicyTariffID)
	assert.Equal(t, domain.PayoutWithdrawalPlan, input.Payout.PayoutMode)
	assert.Equal(t, 3, input.DepotCosts.SwitchesTotal)
	require.Len(t, input.Glidepath, 1)
	assert.True(t, input.Glidepath[0].EquityShare.Equal(decimal.NewFromInt(1)))

	rec.PayoutMode = "annuity"
	assert.True(t, ToScenarioInput(c, &rec).Payout.PayoutMode.IsAnnuity())
}

func TestApplyScenarioInput(t *testing.T) {
	rec := DefaultScenarioRecord(3, "fp-netto-basis")
	rec.ID = 11

	input := ToScenarioInput(&domain.Customer{Name: "A", Age: 30}, &rec)
	input.MonthlyContribution = decimal.NewFromInt(300)
	input.PolicyTariffID = nil
	input.Payout.PayoutMode = domain.PayoutAnnuity

	ApplyScenarioInput(&rec, input)
	assert.Equal(t, int64(11), rec.ID)
	assert.Equal(t, int64(3), rec.CustomerID)
	assert.True(t, rec.MonthlyContribution.Equal(decimal.NewFromInt(300)))
	assert.Nil(t, rec.PolicyTariffID)
	assert.Equal(t, "annuity", rec.PayoutMode)
}
