package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vorsorge/depotvergleich/internal/config"
	"github.com/vorsorge/depotvergleich/pkg/money"
)

func newTariffsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tariffs",
		Short: "List the available policy tariffs and their effective annual cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKOSTEN P.A.")
			for _, t := range a.catalog.Tariffs() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, money.FormatPercent(t.EffectiveCostPA, 2))
			}
			return w.Flush()
		},
	}
}

func newExampleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example scenario configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			outFile, _ := cmd.Flags().GetString("output")
			parser := config.NewInputParserWithTariffs(a.catalog)
			if err := parser.WriteExampleConfiguration(outFile, a.catalog.DefaultTariffID()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", outFile)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "example_config.yaml", "file to write")
	return cmd
}
