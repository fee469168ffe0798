// depotvergleich compares a brokerage account (Depot) with a unit-linked
// insurance policy (Fondspolice) month by month until capital runs out.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "depotvergleich",
		Short: "Depot vs. Fondspolice retirement projection",
		Long: `depotvergleich projects a brokerage account and a fund policy side by side:
monthly contributions and costs until retirement, then tax-aware withdrawals
of a target net amount until the payout end age or until capital runs out.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().String("settings", "", "settings file (default: ./depotvergleich.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newSimulateCmd(a))
	root.AddCommand(newTariffsCmd(a))
	root.AddCommand(newExampleCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "depotvergleich %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
