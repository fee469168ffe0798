package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/vorsorge/depotvergleich/internal/calculation"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of scenario files
type InputParser struct {
	// Tariffs, when set, is used to reject unknown policy tariff ids
	Tariffs calculation.TariffSource
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// NewInputParserWithTariffs creates a parser that also checks tariff ids
func NewInputParserWithTariffs(tariffs calculation.TariffSource) *InputParser {
	return &InputParser{Tariffs: tariffs}
}

// LoadFromFile loads a scenario configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a scenario configuration
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.ApplyCustomer()

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.Customer != nil {
		if err := config.Customer.Validate(); err != nil {
			return fmt.Errorf("customer validation failed: %w", err)
		}
	}

	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	for i := range config.Scenarios {
		if err := ip.ValidateScenario(&config.Scenarios[i]); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
	}

	if config.TaxParams != nil {
		if err := ValidateTaxParams(config.TaxParams); err != nil {
			return fmt.Errorf("tax params validation failed: %w", err)
		}
	}

	return nil
}

// MaxAge bounds every age of a scenario and with it the simulated horizon
const MaxAge = 120

// ValidateHorizon checks that all ages of a scenario lie within 0..MaxAge
func ValidateHorizon(s *domain.ScenarioInput) error {
	for _, a := range []struct {
		name  string
		value int
	}{
		{"age", s.Age},
		{"retirement_age_base", s.RetirementAgeBase},
		{"retirement_age_policy", s.RetirementAgePolicy},
		{"payout end_age", s.Payout.EndAge},
	} {
		if a.value < 0 || a.value > MaxAge {
			return fmt.Errorf("%s (%d) must be between 0 and %d", a.name, a.value, MaxAge)
		}
	}
	return nil
}

// ValidateScenario validates a single scenario
func (ip *InputParser) ValidateScenario(s *domain.ScenarioInput) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if err := ValidateHorizon(s); err != nil {
		return err
	}
	if s.RetirementAgeBase < s.Age {
		return fmt.Errorf("retirement_age_base (%d) cannot be before age (%d)", s.RetirementAgeBase, s.Age)
	}
	if s.RetirementAgePolicy < s.Age {
		return fmt.Errorf("retirement_age_policy (%d) cannot be before age (%d)", s.RetirementAgePolicy, s.Age)
	}
	if s.Payout.EndAge < s.RetirementAgeBase {
		return fmt.Errorf("payout end_age (%d) cannot be before retirement_age_base (%d)", s.Payout.EndAge, s.RetirementAgeBase)
	}
	if s.MonthlyContribution.IsNegative() {
		return fmt.Errorf("monthly contribution cannot be negative")
	}
	if s.StartCapital.IsNegative() {
		return fmt.Errorf("start capital cannot be negative")
	}
	if s.GrossReturnPA.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("gross return must be greater than -100%%")
	}
	if s.DepotCosts.TERPA.IsNegative() || s.DepotCosts.AUMFeePA.IsNegative() || s.DepotCosts.MonthlyFee.IsNegative() {
		return fmt.Errorf("depot costs cannot be negative")
	}
	if s.Payout.TargetNetWithdrawalMonthly.IsNegative() {
		return fmt.Errorf("target net withdrawal cannot be negative")
	}
	if _, err := domain.ParsePayoutMode(string(s.Payout.PayoutMode)); err != nil {
		return err
	}

	for _, p := range s.Glidepath {
		if p.Year < 0 {
			return fmt.Errorf("glidepath year %d cannot be negative", p.Year)
		}
		if p.EquityShare.IsNegative() || p.EquityShare.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("glidepath equity share at year %d must be between 0 and 1", p.Year)
		}
	}

	if id := s.TariffID(); id != "" && ip.Tariffs != nil {
		if _, ok := ip.Tariffs.TariffByID(id); !ok {
			return fmt.Errorf("unknown policy tariff %q", id)
		}
	}

	return nil
}

// ValidateTaxParams checks that every rate of a tax override lies within 0..1
func ValidateTaxParams(p *domain.TaxParams) error {
	one := decimal.NewFromInt(1)
	for name, v := range map[string]decimal.Decimal{
		"withholding_tax_rate":     p.WithholdingTaxRate,
		"soli_rate":                p.SoliRate,
		"church_tax_rate":          p.ChurchTaxRate,
		"partial_exemption_equity": p.PartialExemptionEquity,
	} {
		if v.IsNegative() || v.GreaterThan(one) {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	return nil
}

// CreateExampleConfiguration creates the default scenario a new customer starts with
func (ip *InputParser) CreateExampleConfiguration(defaultTariffID string) *domain.Configuration {
	var tariffID *string
	if defaultTariffID != "" {
		tariffID = &defaultTariffID
	}

	return &domain.Configuration{
		Customer: &domain.Customer{
			Name:             "Max Mustermann",
			Age:              35,
			ChurchTaxEnabled: false,
		},
		Scenarios: []domain.ScenarioInput{
			{
				Name:                "Standard",
				Age:                 35,
				RetirementAgeBase:   67,
				RetirementAgePolicy: 67,
				MonthlyContribution: decimal.NewFromInt(500),
				StartCapital:        decimal.Zero,
				GrossReturnPA:       decimal.NewFromFloat(0.06),
				InflationTargetPA:   decimal.NewFromFloat(0.02),
				InflationCalcPA:     decimal.Zero,
				EquityFund:          true,
				Glidepath:           []domain.GlidePoint{{Year: 0, EquityShare: decimal.NewFromInt(1)}},
				DepotCosts: domain.DepotCosts{
					TERPA:         decimal.Zero,
					AUMFeePA:      decimal.Zero,
					MonthlyFee:    decimal.Zero,
					SwitchesTotal: 3,
				},
				PolicyTariffID: tariffID,
				Payout: domain.PayoutSettings{
					TargetNetWithdrawalMonthly: decimal.NewFromInt(1000),
					EndAge:                     88,
					PayoutMode:                 domain.PayoutWithdrawalPlan,
					AllowDeferralYears:         0,
				},
			},
		},
	}
}

// WriteExampleConfiguration writes the example configuration as YAML
func (ip *InputParser) WriteExampleConfiguration(filename, defaultTariffID string) error {
	data, err := yaml.Marshal(ip.CreateExampleConfiguration(defaultTariffID))
	if err != nil {
		return fmt.Errorf("failed to marshal example configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
