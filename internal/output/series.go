package output

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

// YearlyPoint is one year-end sample of the timeline
type YearlyPoint struct {
	Year            int             `json:"year"`
	Age             decimal.Decimal `json:"age"`
	Depot           decimal.Decimal `json:"depot"`
	Policy          decimal.Decimal `json:"policy"`
	GlidepathEquity decimal.Decimal `json:"glidepath_equity"`
}

// YearlySeries keeps the points whose month is a multiple of 12
func YearlySeries(timeline []domain.MonthlyPoint) []YearlyPoint {
	out := make([]YearlyPoint, 0, len(timeline)/12+1)
	for _, p := range timeline {
		if !p.IsYearEnd() {
			continue
		}
		out = append(out, YearlyPoint{
			Year:            p.Month / 12,
			Age:             p.Age,
			Depot:           p.Depot,
			Policy:          p.Policy,
			GlidepathEquity: p.GlidepathEquity,
		})
	}
	return out
}

// WaterfallBar is one stacked bar of the yearly balance chart
type WaterfallBar struct {
	Label  string          `json:"label"`
	Depot  decimal.Decimal `json:"depot"`
	Policy decimal.Decimal `json:"policy"`
}

// Waterfall labels the yearly series and clamps negative balances to zero
func Waterfall(timeline []domain.MonthlyPoint) []WaterfallBar {
	yearly := YearlySeries(timeline)
	out := make([]WaterfallBar, 0, len(yearly))
	for i, p := range yearly {
		out = append(out, WaterfallBar{
			Label:  fmt.Sprintf("Jahr %d", i),
			Depot:  decimal.Max(p.Depot, decimal.Zero),
			Policy: decimal.Max(p.Policy, decimal.Zero),
		})
	}
	return out
}
