package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vorsorge/depotvergleich/internal/calculation"
	"github.com/vorsorge/depotvergleich/internal/config"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/vorsorge/depotvergleich/internal/metrics"
	"github.com/vorsorge/depotvergleich/internal/output"
)

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the scenarios of a configuration file",
		Long: `Run every scenario of a YAML configuration file and render the results.

Examples:
  depotvergleich simulate --config kunde.yaml
  depotvergleich simulate --config kunde.yaml --format xlsx --output vergleich.xlsx
  depotvergleich simulate --config kunde.yaml --format yearly-csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			format, _ := cmd.Flags().GetString("format")
			outFile, _ := cmd.Flags().GetString("output")
			strict, _ := cmd.Flags().GetBool("strict")
			return a.runSimulate(cmd, configFile, format, outFile, strict)
		},
	}
	cmd.Flags().StringP("config", "c", "", "scenario configuration file (YAML)")
	cmd.Flags().StringP("format", "f", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().Bool("strict", false, "reject retirement before current age and payout end before retirement")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func (a *app) runSimulate(cmd *cobra.Command, configFile, format, outFile string, strict bool) error {
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
	}

	parser := config.NewInputParserWithTariffs(a.catalog)
	cfg, err := parser.LoadFromFile(configFile)
	if err != nil {
		return err
	}

	engine := a.engine(strict)
	outcomes, err := calculation.RunScenarios(cmd.Context(), engine, cfg.Scenarios, cfg.TaxParams, a.settings.Simulate.Concurrency)
	if err != nil {
		return err
	}

	customerName := ""
	if cfg.Customer != nil {
		customerName = cfg.Customer.Name
	}
	now := time.Now()
	reports := make([]domain.Report, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
		tariff := o.Input.TariffID()
		if t, ok := a.catalog.TariffByID(tariff); ok {
			tariff = t.Name
		}
		reports = append(reports, domain.Report{
			CustomerName: customerName,
			ScenarioName: o.Input.Name,
			TariffName:   tariff,
			Input:        o.Input,
			Result:       o.Result,
			GeneratedAt:  now,
		})
	}
	a.logger.Debugw("scenarios simulated", "count", len(reports), "format", formatter.Name())

	var buf bytes.Buffer
	err = output.GenerateReport(reports, formatter.Name(), &buf)
	metrics.IncReportExport(formatter.Name(), err)
	if err != nil {
		return err
	}

	if outFile == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(outFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", outFile)
	return nil
}
