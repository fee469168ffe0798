package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vorsorge/depotvergleich/internal/domain"
)

// ConsoleFormatter prints the Depot and Fondspolice summary blocks per report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(reports []domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "DEPOT VS. FONDSPOLICE")
	fmt.Fprintln(&buf, "=====================")
	for i, r := range reports {
		if r.Result == nil {
			continue
		}
		s := r.Result.Summary
		fmt.Fprintln(&buf)
		title := r.ScenarioName
		if r.CustomerName != "" && r.CustomerName != r.ScenarioName {
			title = fmt.Sprintf("%s (%s)", r.ScenarioName, r.CustomerName)
		}
		fmt.Fprintf(&buf, "SZENARIO %d: %s\n", i+1, title)
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		if r.TariffName != "" {
			fmt.Fprintf(&buf, "Tarif: %s\n", r.TariffName)
		}
		fmt.Fprintln(&buf, "Depot")
		fmt.Fprintf(&buf, "  Wert zu Rente:  %s\n", FormatWholeCurrency(s.DepotValueAtRetirement))
		fmt.Fprintf(&buf, "  Kosten kum.:    %s\n", FormatWholeCurrency(s.DepotCostsPaid))
		fmt.Fprintf(&buf, "  Steuern kum.:   %s\n", FormatWholeCurrency(s.DepotTaxesPaid))
		fmt.Fprintln(&buf, "Fondspolice")
		fmt.Fprintf(&buf, "  Wert zu Rente:  %s\n", FormatWholeCurrency(s.PolicyValueAtRetirement))
		fmt.Fprintf(&buf, "  Kosten kum.:    %s\n", FormatWholeCurrency(s.PolicyCostsPaid))
		fmt.Fprintf(&buf, "  Steuern kum.:   %s\n", FormatWholeCurrency(s.PolicyTaxesPaid))
		fmt.Fprintf(&buf, "Kapital reicht bis ca. Alter %s\n", FormatAge(s.CapitalLastAgePolicy))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, Disclaimer)
	return buf.Bytes(), nil
}
