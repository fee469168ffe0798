package calculation

import (
	"github.com/shopspring/decimal"
)

// GrossUpIterations bounds the bisection search
const GrossUpIterations = 30

// DefaultGrossUpTolerance is the absolute net tolerance in currency units
var DefaultGrossUpTolerance = decimal.NewFromFloat(0.01)

var decimalTwo = decimal.NewFromInt(2)

// NetOfGross maps a gross withdrawal to the amount left after tax
type NetOfGross func(gross decimal.Decimal) decimal.Decimal

// GrossUpResult is the outcome of a gross-up search
type GrossUpResult struct {
	Gross      decimal.Decimal
	Net        decimal.Decimal
	Converged  bool
	Iterations int
}

// SolveGrossUp bisects [targetNet, 2*targetNet+1] for the gross amount whose net
// is within tolerance of targetNet. When no midpoint gets within tolerance the
// upper bound is returned with Converged=false.
func SolveGrossUp(targetNet decimal.Decimal, netOf NetOfGross, tolerance decimal.Decimal) GrossUpResult {
	if !tolerance.IsPositive() {
		tolerance = DefaultGrossUpTolerance
	}

	low := targetNet
	high := targetNet.Mul(decimalTwo).Add(decimalOne)

	for i := 0; i < GrossUpIterations; i++ {
		mid := low.Add(high).Div(decimalTwo)
		net := netOf(mid)

		if net.Sub(targetNet).Abs().LessThan(tolerance) {
			return GrossUpResult{Gross: mid, Net: net, Converged: true, Iterations: i + 1}
		}

		if net.LessThan(targetNet) {
			low = mid
		} else {
			high = mid
		}
	}

	return GrossUpResult{Gross: high, Net: netOf(high), Converged: false, Iterations: GrossUpIterations}
}

// GrossUpToNet returns only the gross amount of SolveGrossUp
func GrossUpToNet(targetNet decimal.Decimal, netOf NetOfGross, tolerance decimal.Decimal) decimal.Decimal {
	return SolveGrossUp(targetNet, netOf, tolerance).Gross
}
