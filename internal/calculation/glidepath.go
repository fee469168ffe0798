package calculation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

// InterpolateGlidepath expands sparse control points into one point per year
// for years 0..years inclusive. Years before the first control point take its
// share, years after the last one take the last share.
func InterpolateGlidepath(points []domain.GlidePoint, years int) []domain.GlidePoint {
	if len(points) == 0 {
		return []domain.GlidePoint{}
	}
	if years < 0 {
		years = 0
	}

	sorted := make([]domain.GlidePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	curve := make([]domain.GlidePoint, 0, years+1)
	for y := 0; y <= years; y++ {
		lower, upper := bracket(sorted, y)
		if lower.Year == upper.Year {
			curve = append(curve, domain.GlidePoint{Year: y, EquityShare: lower.EquityShare})
			continue
		}
		ratio := decimal.NewFromInt(int64(y - lower.Year)).Div(decimal.NewFromInt(int64(upper.Year - lower.Year)))
		share := lower.EquityShare.Add(upper.EquityShare.Sub(lower.EquityShare).Mul(ratio))
		curve = append(curve, domain.GlidePoint{Year: y, EquityShare: share})
	}
	return curve
}

// bracket finds the last point at or before y and the first point at or after y.
// sorted must be non-empty and ordered by year.
func bracket(sorted []domain.GlidePoint, y int) (lower, upper domain.GlidePoint) {
	lower = sorted[0]
	for _, p := range sorted {
		if p.Year <= y {
			lower = p
		}
	}
	upper = sorted[len(sorted)-1]
	for _, p := range sorted {
		if p.Year >= y {
			upper = p
			break
		}
	}
	return lower, upper
}

// FallbackEquityShare is used when the curve has no entry for a year
func FallbackEquityShare(equityFund bool) decimal.Decimal {
	if equityFund {
		return decimalOne
	}
	return decimalHalf
}

// EquityShareForYear looks up a year in an interpolated curve
func EquityShareForYear(curve []domain.GlidePoint, year int, equityFund bool) decimal.Decimal {
	if year < 0 || year >= len(curve) {
		return FallbackEquityShare(equityFund)
	}
	return curve[year].EquityShare
}

// FinalEquityShare returns the share held constant through the payout phase
func FinalEquityShare(curve []domain.GlidePoint, equityFund bool) decimal.Decimal {
	if len(curve) == 0 {
		return FallbackEquityShare(equityFund)
	}
	return curve[len(curve)-1].EquityShare
}
