// Package roi estimates the return on adopting an automation service from four
// production parameters and derives break-even advice from the result.
package roi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Complexity selects the per-part service price tier.
type Complexity string

const (
	Simple  Complexity = "simple"
	Medium  Complexity = "medium"
	Complex Complexity = "complex"
)

// Complexities lists the tiers in ascending price order.
var Complexities = []Complexity{Simple, Medium, Complex}

// Valid reports whether c is one of the known tiers.
func (c Complexity) Valid() bool {
	switch c {
	case Simple, Medium, Complex:
		return true
	}
	return false
}

// Label returns the capitalised tier name used in reports.
func (c Complexity) Label() string {
	switch c {
	case Simple:
		return "Simple"
	case Medium:
		return "Medium"
	case Complex:
		return "Complex"
	}
	return string(c)
}

// Inputs are the four user-controlled production parameters.
type Inputs struct {
	MonthlyVolume    float64    `json:"monthly_volume" yaml:"monthly_volume"`
	CurrentScrapRate float64    `json:"current_scrap_rate" yaml:"current_scrap_rate"`
	LaborCostPerPart float64    `json:"labor_cost_per_part" yaml:"labor_cost_per_part"`
	Complexity       Complexity `json:"complexity" yaml:"complexity"`
}

// Assumptions holds the fixed constants of the valuation model.
type Assumptions struct {
	PricingTable           map[Complexity]float64 `json:"pricing_table" yaml:"pricing_table"`
	UpfrontFee             float64                `json:"upfront_fee" yaml:"upfront_fee"`
	PostAutomationScrap    float64                `json:"post_automation_scrap_percent" yaml:"post_automation_scrap_percent"`
	LaborEfficiencyGain    float64                `json:"labor_efficiency_gain" yaml:"labor_efficiency_gain"` // fraction
	MaterialCostMultiplier float64                `json:"material_cost_multiplier" yaml:"material_cost_multiplier"`
}

// DefaultAssumptions returns the standard service terms.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		PricingTable: map[Complexity]float64{
			Simple:  2,
			Medium:  3.5,
			Complex: 5,
		},
		UpfrontFee:             25000,
		PostAutomationScrap:    1,
		LaborEfficiencyGain:    0.30,
		MaterialCostMultiplier: 2,
	}
}

// Price returns the service price per part for the tier, or 0 for an unknown tier.
func (a Assumptions) Price(c Complexity) float64 {
	return a.PricingTable[c]
}

// Payback is the number of months until cumulative net savings cover the
// upfront fee. It is either a finite month count or unreachable.
type Payback struct {
	months    float64
	reachable bool
}

// PaybackIn returns a reachable payback of the given months.
func PaybackIn(months float64) Payback {
	return Payback{months: months, reachable: true}
}

// Unreachable is the payback when net monthly savings are not positive.
var Unreachable = Payback{}

// Months returns the payback period and whether it is reachable.
func (p Payback) Months() (float64, bool) {
	return p.months, p.reachable
}

// Reachable reports whether the investment ever pays back.
func (p Payback) Reachable() bool {
	return p.reachable
}

func (p Payback) String() string {
	if !p.reachable {
		return "unreachable"
	}
	return strconv.FormatFloat(p.months, 'f', -1, 64) + " months"
}

// MarshalJSON encodes an unreachable payback as null.
func (p Payback) MarshalJSON() ([]byte, error) {
	if !p.reachable {
		return []byte("null"), nil
	}
	return json.Marshal(p.months)
}

// UnmarshalJSON accepts a number or null.
func (p *Payback) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Unreachable
		return nil
	}
	var months float64
	if err := json.Unmarshal(data, &months); err != nil {
		return fmt.Errorf("decode payback months: %w", err)
	}
	*p = PaybackIn(months)
	return nil
}

// MarshalYAML encodes an unreachable payback as null.
func (p Payback) MarshalYAML() (any, error) {
	if !p.reachable {
		return nil, nil
	}
	return p.months, nil
}

// Metrics contains every value derived from Inputs and Assumptions.
type Metrics struct {
	ServicePricePerPart          float64 `json:"service_price_per_part" yaml:"service_price_per_part"`
	MonthlyServiceCost           float64 `json:"monthly_service_cost" yaml:"monthly_service_cost"`
	CostPerDefectivePart         float64 `json:"cost_per_defective_part" yaml:"cost_per_defective_part"`
	CurrentDefectiveParts        float64 `json:"current_defective_parts" yaml:"current_defective_parts"`
	PostAutomationDefectiveParts float64 `json:"post_automation_defective_parts" yaml:"post_automation_defective_parts"`
	PartsSaved                   float64 `json:"parts_saved" yaml:"parts_saved"`
	ScrapSavings                 float64 `json:"scrap_savings" yaml:"scrap_savings"`
	CurrentMonthlyLaborCost      float64 `json:"current_monthly_labor_cost" yaml:"current_monthly_labor_cost"`
	LaborSavings                 float64 `json:"labor_savings" yaml:"labor_savings"`
	GrossSavings                 float64 `json:"gross_savings" yaml:"gross_savings"`
	NetMonthlySavings            float64 `json:"net_monthly_savings" yaml:"net_monthly_savings"`
	Payback                      Payback `json:"payback_months" yaml:"payback_months"`
	AnnualNetSavings             float64 `json:"annual_net_savings" yaml:"annual_net_savings"`
	AnnualROI                    float64 `json:"annual_roi" yaml:"annual_roi"`
	FiveYearNet                  float64 `json:"five_year_net" yaml:"five_year_net"`
	IsViable                     bool    `json:"is_viable" yaml:"is_viable"`
}

// ComputeMetrics evaluates the valuation model with the default assumptions.
func ComputeMetrics(in Inputs) Metrics {
	return DefaultAssumptions().ComputeMetrics(in)
}

// ComputeMetrics evaluates the valuation model. It performs no bounds
// checking; any positive input yields a defined result.
func (a Assumptions) ComputeMetrics(in Inputs) Metrics {
	price := a.Price(in.Complexity)
	serviceCost := in.MonthlyVolume * price
	costPerDefect := in.LaborCostPerPart * (1 + a.MaterialCostMultiplier)
	currentDefects := in.MonthlyVolume * (in.CurrentScrapRate / 100)
	postDefects := in.MonthlyVolume * (a.PostAutomationScrap / 100)
	partsSaved := currentDefects - postDefects
	scrapSavings := partsSaved * costPerDefect
	laborCost := in.MonthlyVolume * in.LaborCostPerPart
	laborSavings := laborCost * a.LaborEfficiencyGain
	gross := scrapSavings + laborSavings
	net := gross - serviceCost

	payback := Unreachable
	if net > 0 {
		payback = PaybackIn(a.UpfrontFee / net)
	}
	annualNet := net * 12

	return Metrics{
		ServicePricePerPart:          price,
		MonthlyServiceCost:           serviceCost,
		CostPerDefectivePart:         costPerDefect,
		CurrentDefectiveParts:        currentDefects,
		PostAutomationDefectiveParts: postDefects,
		PartsSaved:                   partsSaved,
		ScrapSavings:                 scrapSavings,
		CurrentMonthlyLaborCost:      laborCost,
		LaborSavings:                 laborSavings,
		GrossSavings:                 gross,
		NetMonthlySavings:            net,
		Payback:                      payback,
		AnnualNetSavings:             annualNet,
		AnnualROI:                    (annualNet / a.UpfrontFee) * 100,
		FiveYearNet:                  net*60 - a.UpfrontFee,
		IsViable:                     net > 0,
	}
}
