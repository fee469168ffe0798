package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vorsorge/depotvergleich/internal/domain"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// GenerateReport renders reports in the named format and writes them to w.
func GenerateReport(reports []domain.Report, format string, w io.Writer) error {
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	data, err := f.Format(reports)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}
