package roi

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Input ranges and slider steps accepted by the calculator.
const (
	MinVolume  = 5000
	MaxVolume  = 500000
	VolumeStep = 5000

	MinScrapRate  = 1
	MaxScrapRate  = 25
	ScrapRateStep = 0.5

	MinLaborCostPerPart = 1
	MaxLaborCostPerPart = 50
	LaborCostStep       = 0.5
)

// DefaultInputs is the scenario shown before the user changes anything.
func DefaultInputs() Inputs {
	return Inputs{
		MonthlyVolume:    50000,
		CurrentScrapRate: 12,
		LaborCostPerPart: 5,
		Complexity:       Medium,
	}
}

// ParseComplexity maps a tier name, case-insensitively, to a Complexity.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("complexity must be one of simple, medium, complex (got %q)", s)
}

// Clamp returns in with every numeric field snapped to its slider step and
// limited to its range. An unknown complexity falls back to medium.
func (in Inputs) Clamp() Inputs {
	out := in
	out.MonthlyVolume = clampStep(in.MonthlyVolume, MinVolume, MaxVolume, VolumeStep)
	out.CurrentScrapRate = clampStep(in.CurrentScrapRate, MinScrapRate, MaxScrapRate, ScrapRateStep)
	out.LaborCostPerPart = clampStep(in.LaborCostPerPart, MinLaborCostPerPart, MaxLaborCostPerPart, LaborCostStep)
	if c, err := ParseComplexity(string(in.Complexity)); err == nil {
		out.Complexity = c
	} else {
		out.Complexity = Medium
	}
	return out
}

// Validate reports every field outside the calculator's domain.
func (in Inputs) Validate() error {
	var errs []error
	if in.MonthlyVolume < MinVolume || in.MonthlyVolume > MaxVolume || math.IsNaN(in.MonthlyVolume) {
		errs = append(errs, fmt.Errorf("monthly_volume must be between %d and %d (got %v)", MinVolume, MaxVolume, in.MonthlyVolume))
	}
	if in.CurrentScrapRate < MinScrapRate || in.CurrentScrapRate > MaxScrapRate || math.IsNaN(in.CurrentScrapRate) {
		errs = append(errs, fmt.Errorf("current_scrap_rate must be between %d and %d (got %v)", MinScrapRate, MaxScrapRate, in.CurrentScrapRate))
	}
	if in.LaborCostPerPart < MinLaborCostPerPart || in.LaborCostPerPart > MaxLaborCostPerPart || math.IsNaN(in.LaborCostPerPart) {
		errs = append(errs, fmt.Errorf("labor_cost_per_part must be between %d and %d (got %v)", MinLaborCostPerPart, MaxLaborCostPerPart, in.LaborCostPerPart))
	}
	if !in.Complexity.Valid() {
		errs = append(errs, fmt.Errorf("complexity must be one of simple, medium, complex (got %q)", in.Complexity))
	}
	return errors.Join(errs...)
}

func clampStep(v, lo, hi, step float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	v = lo + math.Round((v-lo)/step)*step
	return math.Max(lo, math.Min(hi, v))
}
