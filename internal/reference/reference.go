// Package reference provides the read-only tariff and tax parameter data the
// projection engine consumes.
package reference

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	TariffsFile     = "tariffs.yaml"
	TaxDefaultsFile = "tax_defaults.yaml"
)

//go:embed data/*.yaml
var bundled embed.FS

// Source is an injected read-only provider of reference data
type Source interface {
	TariffByID(id string) (domain.TariffRecord, bool)
	Tariffs() []domain.TariffRecord
	DefaultTaxParams() domain.TaxParams
}

// Catalog is an immutable Source built from YAML documents
type Catalog struct {
	tariffs []domain.TariffRecord
	byID    map[string]domain.TariffRecord
	tax     domain.TaxParams
}

type tariffDocument struct {
	Tariffs []domain.TariffRecord `yaml:"tariffs"`
}

// Embedded returns the catalog bundled with the binary
func Embedded() (*Catalog, error) {
	tariffs, err := bundled.ReadFile("data/" + TariffsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled tariffs: %w", err)
	}
	tax, err := bundled.ReadFile("data/" + TaxDefaultsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled tax defaults: %w", err)
	}
	return Parse(tariffs, tax)
}

// LoadDir reads tariffs.yaml and tax_defaults.yaml from dir
func LoadDir(dir string) (*Catalog, error) {
	tariffs, err := os.ReadFile(filepath.Join(dir, TariffsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read tariffs: %w", err)
	}
	tax, err := os.ReadFile(filepath.Join(dir, TaxDefaultsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read tax defaults: %w", err)
	}
	return Parse(tariffs, tax)
}

// Parse builds a catalog from raw YAML documents
func Parse(tariffsYAML, taxYAML []byte) (*Catalog, error) {
	var doc tariffDocument
	if err := yaml.Unmarshal(tariffsYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tariffs: %w", err)
	}
	var tax domain.TaxParams
	if err := yaml.Unmarshal(taxYAML, &tax); err != nil {
		return nil, fmt.Errorf("failed to parse tax defaults: %w", err)
	}

	c := &Catalog{
		tariffs: make([]domain.TariffRecord, 0, len(doc.Tariffs)),
		byID:    make(map[string]domain.TariffRecord, len(doc.Tariffs)),
		tax:     tax,
	}
	for i, t := range doc.Tariffs {
		if t.ID == "" {
			return nil, fmt.Errorf("tariff %d: id is required", i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("tariff %q: duplicate id", t.ID)
		}
		if t.EffectiveCostPA.IsNegative() || t.EffectiveCostPA.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("tariff %q: effective_cost_pa must be in [0, 1), got %s", t.ID, t.EffectiveCostPA)
		}
		c.tariffs = append(c.tariffs, t)
		c.byID[t.ID] = t
	}
	return c, nil
}

// TariffByID looks up a tariff
func (c *Catalog) TariffByID(id string) (domain.TariffRecord, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Tariffs returns a copy of the tariffs in file order
func (c *Catalog) Tariffs() []domain.TariffRecord {
	out := make([]domain.TariffRecord, len(c.tariffs))
	copy(out, c.tariffs)
	return out
}

// DefaultTaxParams returns the bundled tax parameters
func (c *Catalog) DefaultTaxParams() domain.TaxParams {
	return c.tax
}

// DefaultTariffID returns the first listed tariff, used for new scenarios
func (c *Catalog) DefaultTariffID() string {
	if len(c.tariffs) == 0 {
		return ""
	}
	return c.tariffs[0].ID
}
