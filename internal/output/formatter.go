package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vorsorge/depotvergleich/internal/domain"
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(reports []domain.Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, reports []domain.Report, dir string) (string, error) {
	data, err := f.Format(reports)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("depotvergleich_%s.%s", time.Now().Format("20060102_150405"), Extension(f.Name()))
	if dir != "" {
		filename = filepath.Join(dir, filename)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	CSVYearlyExporter{},
	HTMLFormatter{},
	JSONFormatter{},
	XLSXFormatter{},
	PDFFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":         "console",
	"txt":          "console",
	"csv-detailed": "detailed-csv",
	"timeline":     "detailed-csv",
	"csv-summary":  "csv",
	"csv-yearly":   "yearly-csv",
	"html-report":  "html",
	"print":        "html",
	"json-pretty":  "json",
	"excel":        "xlsx",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extension returns the file extension for a canonical formatter name
func Extension(name string) string {
	switch name {
	case "console":
		return "txt"
	case "detailed-csv", "yearly-csv":
		return "csv"
	default:
		return name
	}
}

// ContentType returns the MIME type for a canonical formatter name
func ContentType(name string) string {
	switch name {
	case "json":
		return "application/json"
	case "csv", "detailed-csv", "yearly-csv":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}
