package output

import (
	"bytes"
	"encoding/csv"

	"github.com/vorsorge/depotvergleich/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per report).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(reports []domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Customer", "Scenario", "Tariff", "DepotValueAtRetirement", "PolicyValueAtRetirement", "DepotCostsPaid", "PolicyCostsPaid", "DepotTaxesPaid", "PolicyTaxesPaid", "CapitalLastAgeDepot", "CapitalLastAgePolicy"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range reports {
		if r.Result == nil {
			continue
		}
		s := r.Result.Summary
		row := []string{
			r.CustomerName,
			r.ScenarioName,
			r.TariffName,
			s.DepotValueAtRetirement.StringFixed(2),
			s.PolicyValueAtRetirement.StringFixed(2),
			s.DepotCostsPaid.StringFixed(2),
			s.PolicyCostsPaid.StringFixed(2),
			s.DepotTaxesPaid.StringFixed(2),
			s.PolicyTaxesPaid.StringFixed(2),
			s.CapitalLastAgeDepot.StringFixed(2),
			s.CapitalLastAgePolicy.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
