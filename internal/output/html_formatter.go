package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"

	"github.com/goccy/go-json"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/vorsorge/depotvergleich/pkg/dateutil"
)

// HTMLFormatter produces the printable HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"whole": FormatWholeCurrency,
	"pct":   FormatPercentage,
	"age":   FormatAge,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type htmlYear struct {
	YearlyPoint
	CalendarYear int
}

type htmlReport struct {
	CustomerName string
	ScenarioName string
	TariffName   string
	Summary      domain.ResultSummary
	Yearly       []htmlYear
	Waterfall    []WaterfallBar
}

func calendarYears(points []YearlyPoint, start time.Time) []htmlYear {
	out := make([]htmlYear, 0, len(points))
	for _, p := range points {
		out = append(out, htmlYear{YearlyPoint: p, CalendarYear: dateutil.CalendarYear(start, p.Year*12)})
	}
	return out
}

func (h HTMLFormatter) Format(reports []domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	views := make([]htmlReport, 0, len(reports))
	generated := time.Time{}
	for _, r := range reports {
		if r.Result == nil {
			continue
		}
		if r.GeneratedAt.After(generated) {
			generated = r.GeneratedAt
		}
		views = append(views, htmlReport{
			CustomerName: r.CustomerName,
			ScenarioName: r.ScenarioName,
			TariffName:   r.TariffName,
			Summary:      r.Result.Summary,
			Yearly:       calendarYears(YearlySeries(r.Result.Timeline), reportStart(r)),
			Waterfall:    Waterfall(r.Result.Timeline),
		})
	}

	data := struct {
		Reports     []htmlReport
		GeneratedAt string
		Disclaimer  string
	}{views, generated.Format("02.01.2006 15:04"), Disclaimer}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// reportStart anchors month 0 at the generation date, or today when unset
func reportStart(r domain.Report) time.Time {
	if r.GeneratedAt.IsZero() {
		return time.Now()
	}
	return r.GeneratedAt
}
