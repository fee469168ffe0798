package calculation

import (
	"context"
	"fmt"

	"github.com/vorsorge/depotvergleich/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ScenarioOutcome pairs one batch input with its result or error
type ScenarioOutcome struct {
	Input  domain.ScenarioInput
	Result *domain.SimulationResult
	Err    error
}

// RunScenarios simulates independent scenarios concurrently. Outcomes keep the
// input order. Per-scenario failures are reported in the outcome; the returned
// error is only set when ctx is cancelled.
func RunScenarios(ctx context.Context, engine *ProjectionEngine, inputs []domain.ScenarioInput, override *domain.TaxParams, concurrency int) ([]ScenarioOutcome, error) {
	outcomes := make([]ScenarioOutcome, len(inputs))
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, input := range inputs {
		outcomes[i].Input = input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := engine.Simulate(input, override)
			if err != nil {
				outcomes[i].Err = fmt.Errorf("scenario %q: %w", input.Name, err)
				return nil
			}
			outcomes[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
