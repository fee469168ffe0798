package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

// PDFFormatter renders the print report.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(reports []domain.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252 encoded
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)

	for _, r := range reports {
		if r.Result == nil {
			continue
		}
		s := r.Result.Summary
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, tr("Depot vs. Fondspolice"))
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, tr(fmt.Sprintf("Szenario: %s", r.ScenarioName)))
		pdf.Ln(5)
		if r.CustomerName != "" {
			pdf.Cell(0, 6, tr(fmt.Sprintf("Kunde: %s", r.CustomerName)))
			pdf.Ln(5)
		}
		if r.TariffName != "" {
			pdf.Cell(0, 6, tr(fmt.Sprintf("Tarif: %s", r.TariffName)))
			pdf.Ln(5)
		}
		if !r.GeneratedAt.IsZero() {
			pdf.Cell(0, 6, fmt.Sprintf("Erstellt: %s", r.GeneratedAt.Format(time.RFC3339)))
			pdf.Ln(5)
		}

		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 6, "", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Depot", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Fondspolice", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		summaryRow(pdf, tr, "Wert zu Rente", s.DepotValueAtRetirement.StringFixed(0), s.PolicyValueAtRetirement.StringFixed(0))
		summaryRow(pdf, tr, "Kosten kum.", s.DepotCostsPaid.StringFixed(0), s.PolicyCostsPaid.StringFixed(0))
		summaryRow(pdf, tr, "Steuern kum.", s.DepotTaxesPaid.StringFixed(0), s.PolicyTaxesPaid.StringFixed(0))
		pdf.Ln(3)
		pdf.Cell(0, 6, fmt.Sprintf("Kapital reicht bis ca. Alter %s", FormatAge(s.CapitalLastAgePolicy)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 10)
		for _, h := range []string{"Jahr", "Alter", "Depot", "Police", "Aktienquote"} {
			pdf.CellFormat(30, 6, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, y := range YearlySeries(r.Result.Timeline) {
			pdf.CellFormat(30, 5, intToString(y.Year), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 5, FormatAge(y.Age), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 5, tr(FormatWholeCurrency(y.Depot)), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 5, tr(FormatWholeCurrency(y.Policy)), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 5, FormatPercentage(y.GlidepathEquity), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}

		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, tr(Disclaimer))
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
		pdf.Cell(0, 6, tr(Disclaimer))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func summaryRow(pdf *gofpdf.Fpdf, tr func(string) string, label, depot, policy string) {
	pdf.CellFormat(50, 6, tr(label), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, tr(depot+" €"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 6, tr(policy+" €"), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
}
