package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/calculation"
)

func main() {
	tax := calculation.NewTaxCalculator(calculation.DefaultTaxParams(), false)
	target := decimal.NewFromInt(1000)
	balance := decimal.NewFromInt(300000)
	basis := decimal.NewFromInt(180000)

	// Depot sale, equity fund
	depot := calculation.DepotSale{Balance: balance, CostBasis: basis, EquityFund: true, Tax: tax}
	res := calculation.SolveGrossUp(target, calculation.NetFunc(depot), calculation.DefaultGrossUpTolerance)
	fmt.Println("Depot withdrawal:")
	fmt.Printf("Gross: %s Net: %s Tax: %s Converged: %v Iterations: %d\n",
		res.Gross.StringFixed(2), res.Net.StringFixed(2), res.Gross.Sub(res.Net).StringFixed(2), res.Converged, res.Iterations)

	// Policy withdrawal plan with the half-income privilege
	policy := calculation.PolicyWithdrawalPlan{Balance: balance, CostBasis: basis, TaxableShare: decimal.NewFromFloat(0.5), Tax: tax}
	res = calculation.SolveGrossUp(target, calculation.NetFunc(policy), calculation.DefaultGrossUpTolerance)
	fmt.Println("Policy withdrawal plan (half income):")
	fmt.Printf("Gross: %s Net: %s Tax: %s Converged: %v Iterations: %d\n",
		res.Gross.StringFixed(2), res.Net.StringFixed(2), res.Gross.Sub(res.Net).StringFixed(2), res.Converged, res.Iterations)

	// Annuity taxed on the Ertragsanteil at 67
	annuity := calculation.PolicyAnnuity{Ertragsanteil: calculation.ErtragsanteilForAge(67), Tax: tax}
	res = calculation.SolveGrossUp(target, calculation.NetFunc(annuity), calculation.DefaultGrossUpTolerance)
	fmt.Println("Policy annuity at 67:")
	fmt.Printf("Gross: %s Net: %s Tax: %s Converged: %v Iterations: %d\n",
		res.Gross.StringFixed(2), res.Net.StringFixed(2), res.Gross.Sub(res.Net).StringFixed(2), res.Converged, res.Iterations)
}
