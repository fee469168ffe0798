package output

import (
	"bytes"
	"fmt"

	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Zusammenfassung"
	yearlySheet   = "Jahre"
	timelineSheet = "Zeitreihe"
)

// XLSXFormatter renders a workbook with summary, yearly and monthly sheets.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(reports []domain.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(yearlySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(timelineSheet); err != nil {
		return nil, err
	}

	setRow(f, summarySheet, 1, "Kunde", "Szenario", "Tarif",
		"Depot Wert zu Rente", "Police Wert zu Rente",
		"Depot Kosten kum.", "Police Kosten kum.",
		"Depot Steuern kum.", "Police Steuern kum.",
		"Kapital bis Alter (Depot)", "Kapital bis Alter (Police)")
	setRow(f, yearlySheet, 1, "Szenario", "Jahr", "Kalenderjahr", "Alter", "Depot", "Police", "Aktienquote")
	setRow(f, timelineSheet, 1, "Szenario", "Monat", "Alter", "Depot", "Police", "Aktienquote")

	summaryRow, yearlyRow, timelineRow := 2, 2, 2
	for _, r := range reports {
		if r.Result == nil {
			continue
		}
		s := r.Result.Summary
		setRow(f, summarySheet, summaryRow, r.CustomerName, r.ScenarioName, r.TariffName,
			s.DepotValueAtRetirement.InexactFloat64(), s.PolicyValueAtRetirement.InexactFloat64(),
			s.DepotCostsPaid.InexactFloat64(), s.PolicyCostsPaid.InexactFloat64(),
			s.DepotTaxesPaid.InexactFloat64(), s.PolicyTaxesPaid.InexactFloat64(),
			s.CapitalLastAgeDepot.InexactFloat64(), s.CapitalLastAgePolicy.InexactFloat64())
		summaryRow++

		for _, p := range calendarYears(YearlySeries(r.Result.Timeline), reportStart(r)) {
			setRow(f, yearlySheet, yearlyRow, r.ScenarioName, p.Year, p.CalendarYear, p.Age.InexactFloat64(),
				p.Depot.InexactFloat64(), p.Policy.InexactFloat64(), p.GlidepathEquity.InexactFloat64())
			yearlyRow++
		}
		for _, p := range r.Result.Timeline {
			setRow(f, timelineSheet, timelineRow, r.ScenarioName, p.Month, p.Age.InexactFloat64(),
				p.Depot.InexactFloat64(), p.Policy.InexactFloat64(), p.GlidepathEquity.InexactFloat64())
			timelineRow++
		}
	}
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", summaryRow+1), Disclaimer)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}
