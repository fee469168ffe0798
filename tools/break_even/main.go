package main

import (
	"context"
	"fmt"
	"os"

	calc "github.com/vorsorge/depotvergleich/internal/calculation"
	"github.com/vorsorge/depotvergleich/internal/config"
	"github.com/vorsorge/depotvergleich/internal/output"
	"github.com/vorsorge/depotvergleich/internal/reference"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: break_even <config-file>")
		return
	}
	catalog, err := reference.Embedded()
	if err != nil {
		panic(err)
	}
	p := config.NewInputParserWithTariffs(catalog)
	cfg, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	engine := calc.NewProjectionEngine(calc.WithTariffSource(catalog), calc.WithTaxDefaults(catalog.DefaultTaxParams()))
	outcomes, err := calc.RunScenarios(context.Background(), engine, cfg.Scenarios, cfg.TaxParams, 1)
	if err != nil {
		panic(err)
	}

	fmt.Println("Scenario,Year,Age,Depot,Policy,Gap")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintln(os.Stderr, o.Err)
			continue
		}
		// first year-end where the policy balance is at or above the depot
		breakEven := -1
		for _, y := range output.YearlySeries(o.Result.Timeline) {
			gap := y.Depot.Sub(y.Policy)
			fmt.Printf("%s,%d,%s,%s,%s,%s\n", o.Input.Name, y.Year, y.Age.StringFixed(1), y.Depot.StringFixed(0), y.Policy.StringFixed(0), gap.StringFixed(0))
			if breakEven < 0 && y.Year > 0 && !gap.IsPositive() {
				breakEven = y.Year
			}
		}
		if breakEven < 0 {
			fmt.Fprintf(os.Stderr, "%s: policy never catches up with the depot\n", o.Input.Name)
		} else {
			fmt.Fprintf(os.Stderr, "%s: policy reaches the depot in year %d\n", o.Input.Name, breakEven)
		}
	}
}
