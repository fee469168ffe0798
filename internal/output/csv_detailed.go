package output

import (
	"bytes"
	"encoding/csv"

	"github.com/vorsorge/depotvergleich/internal/domain"
)

// CSVDetailedExporter writes the full monthly timeline of every report.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(reports []domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Month", "Age", "Depot", "Policy", "GlidepathEquity", "YearEnd"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range reports {
		if r.Result == nil {
			continue
		}
		for _, p := range r.Result.Timeline {
			row := []string{
				r.ScenarioName,
				intToString(p.Month),
				p.Age.StringFixed(4),
				p.Depot.StringFixed(2),
				p.Policy.StringFixed(2),
				p.GlidepathEquity.StringFixed(4),
				boolToString(p.IsYearEnd()),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVYearlyExporter writes the year-end series used for charts.
type CSVYearlyExporter struct{}

func (c CSVYearlyExporter) Name() string { return "yearly-csv" }

func (c CSVYearlyExporter) Format(reports []domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Year", "Age", "Depot", "Policy", "GlidepathEquity"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range reports {
		if r.Result == nil {
			continue
		}
		for _, p := range YearlySeries(r.Result.Timeline) {
			row := []string{
				r.ScenarioName,
				intToString(p.Year),
				p.Age.StringFixed(2),
				p.Depot.StringFixed(2),
				p.Policy.StringFixed(2),
				p.GlidepathEquity.StringFixed(4),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
