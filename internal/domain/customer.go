package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrCustomerAgeRequired  = errors.New("customer age must be positive")
)

// Customer is the person a scenario is calculated for
type Customer struct {
	ID               int64            `yaml:"id,omitempty" json:"id"`
	Name             string           `yaml:"name" json:"name"`
	Age              int              `yaml:"age" json:"age"`
	AnnualIncome     *decimal.Decimal `yaml:"annual_income,omitempty" json:"annual_income,omitempty"`
	MaritalStatus    *string          `yaml:"marital_status,omitempty" json:"marital_status,omitempty"`
	ChurchTaxEnabled bool             `yaml:"church_tax_enabled" json:"church_tax_enabled"`
	CreatedAt        time.Time        `yaml:"created_at,omitempty" json:"created_at"`
}

// Validate applies the minimal rules required to create a customer
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCustomerNameRequired
	}
	if c.Age <= 0 {
		return ErrCustomerAgeRequired
	}
	return nil
}

// Configuration is the content of a scenario file
type Configuration struct {
	Customer  *Customer       `yaml:"customer,omitempty" json:"customer,omitempty"`
	Scenarios []ScenarioInput `yaml:"scenarios" json:"scenarios"`

	// Optional what-if override of the bundled tax parameters
	TaxParams *TaxParams `yaml:"tax_params,omitempty" json:"tax_params,omitempty"`
}

// ApplyCustomer copies customer attributes into scenarios that leave them unset
func (c *Configuration) ApplyCustomer() {
	if c.Customer == nil {
		return
	}
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if s.Age == 0 {
			s.Age = c.Customer.Age
		}
		if !s.ChurchTaxEnabled {
			s.ChurchTaxEnabled = c.Customer.ChurchTaxEnabled
		}
	}
}
