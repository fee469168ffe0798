package output

import (
	"github.com/goccy/go-json"
	"github.com/vorsorge/depotvergleich/internal/domain"
)

// JSONFormatter serializes the reports as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(reports []domain.Report) ([]byte, error) {
	return json.MarshalIndent(reports, "", "  ")
}
