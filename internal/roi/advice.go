package roi

import (
	"fmt"
	"math"

	"github.com/Simplici0/automation-roi/internal/inr"
)

// Category classifies an insight.
type Category string

const (
	CategoryAction     Category = "action"
	CategorySuggestion Category = "suggestion"
	CategoryInfo       Category = "info"
	CategorySuccess    Category = "success"
)

// Impact ranks how much an insight matters.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Insight is one advisory message, ready to render.
type Insight struct {
	Category    Category `json:"category" yaml:"category"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Impact      Impact   `json:"impact" yaml:"impact"`
}

// Adjustment is a one-step change to the inputs that moves toward profitability.
type Adjustment struct {
	Label  string `json:"label" yaml:"label"`
	Inputs Inputs `json:"inputs" yaml:"inputs"`
}

// Advice is the output of the advisory engine.
type Advice struct {
	BreakEvenScrapRate float64      `json:"break_even_scrap_rate" yaml:"break_even_scrap_rate"` // clamped to [0, 25]
	MinLaborCost       float64      `json:"min_labor_cost" yaml:"min_labor_cost"`               // clamped to >= 0
	Insights           []Insight    `json:"insights" yaml:"insights"`
	QuickFixes         []Adjustment `json:"quick_fixes" yaml:"quick_fixes"`
}

// breakEven holds the unclamped thresholds.
type breakEven struct {
	scrapRate    float64
	minLaborCost float64
}

// ComputeAdvice runs the advisory engine with the default assumptions.
func ComputeAdvice(in Inputs, m Metrics) Advice {
	return DefaultAssumptions().ComputeAdvice(in, m)
}

// ComputeAdvice solves for the break-even scrap rate and labor cost and
// selects advisory messages for the viability branch m falls in.
// in.MonthlyVolume must be non-zero.
func (a Assumptions) ComputeAdvice(in Inputs, m Metrics) Advice {
	be := a.breakEven(in)

	var insights []Insight
	if !m.IsViable {
		insights = a.notViableInsights(in, be)
	} else {
		insights = a.viableInsights(in, m)
	}

	return Advice{
		BreakEvenScrapRate: be.clampedScrapRate(),
		MinLaborCost:       math.Max(0, be.minLaborCost),
		Insights:           insights,
		QuickFixes:         a.quickFixes(in, m, be),
	}
}

func (a Assumptions) breakEven(in Inputs) breakEven {
	price := a.Price(in.Complexity)
	costPerDefect := in.LaborCostPerPart * (1 + a.MaterialCostMultiplier)
	post := a.PostAutomationScrap / 100

	requiredScrapSavings := (in.MonthlyVolume * price) - (in.MonthlyVolume * in.LaborCostPerPart * a.LaborEfficiencyGain)
	requiredPartsSaved := requiredScrapSavings / costPerDefect
	scrapRate := ((requiredPartsSaved / in.MonthlyVolume) + post) * 100

	scrapDelta := in.CurrentScrapRate/100 - post
	perPartFactor := scrapDelta * a.MaterialCostMultiplier
	minLabor := price / (a.LaborEfficiencyGain + perPartFactor + scrapDelta)

	return breakEven{scrapRate: scrapRate, minLaborCost: minLabor}
}

// clampedScrapRate is the break-even scrap rate limited to the slider range.
func (b breakEven) clampedScrapRate() float64 {
	return math.Max(0, math.Min(MaxScrapRate, b.scrapRate))
}

func (b breakEven) scrapAdvisable(in Inputs) bool {
	return in.CurrentScrapRate < b.scrapRate && b.scrapRate <= MaxScrapRate
}

func (b breakEven) laborAdvisable(in Inputs) bool {
	return in.LaborCostPerPart < b.minLaborCost && b.minLaborCost <= MaxLaborCostPerPart
}

func (a Assumptions) notViableInsights(in Inputs, be breakEven) []Insight {
	insights := make([]Insight, 0, 4)

	if be.scrapAdvisable(in) {
		insights = append(insights, Insight{
			Category: CategoryAction,
			Title:    "Increase Scrap Rate Threshold",
			Description: fmt.Sprintf(
				"Your current scrap rate of %s%% is too low to justify automation costs. You'd need at least %s%% scrap rate, or focus on operations with higher defect rates.",
				inr.Plain(in.CurrentScrapRate), inr.Fixed(be.scrapRate, 1)),
			Impact: ImpactHigh,
		})
	}

	if be.laborAdvisable(in) {
		insights = append(insights, Insight{
			Category: CategoryAction,
			Title:    "Target Higher Labor Cost Operations",
			Description: fmt.Sprintf(
				"Current labor cost of ₹%s/part is below break-even. Focus on processes with labor costs above ₹%s/part.",
				inr.Plain(in.LaborCostPerPart), inr.Plain(math.Ceil(be.minLaborCost))),
			Impact: ImpactHigh,
		})
	}

	if in.Complexity != Simple {
		price := a.Price(in.Complexity)
		simplePrice := a.Price(Simple)
		insights = append(insights, Insight{
			Category: CategorySuggestion,
			Title:    "Consider Simpler Parts First",
			Description: fmt.Sprintf(
				"Switching to simple parts (₹%s/part vs ₹%s/part) could save ₹%s/month in service costs.",
				inr.Plain(simplePrice), inr.Plain(price), inr.Number((price-simplePrice)*in.MonthlyVolume)),
			Impact: ImpactMedium,
		})
	}

	insights = append(insights, Insight{
		Category:    CategoryInfo,
		Title:       "Volume Impact",
		Description: "Higher volumes spread the efficiency gains. Consider consolidating production or identifying high-volume product lines for automation first.",
		Impact:      ImpactLow,
	})

	return insights
}

func (a Assumptions) viableInsights(in Inputs, m Metrics) []Insight {
	insights := make([]Insight, 0, 3)

	months, _ := m.Payback.Months()
	insights = append(insights, Insight{
		Category: CategorySuccess,
		Title:    "Strong Business Case",
		Description: fmt.Sprintf(
			"With %s month payback and %s%% annual ROI, automation is highly recommended.",
			inr.Fixed(months, 1), inr.Fixed(m.AnnualROI, 0)),
		Impact: ImpactHigh,
	})

	if in.Complexity == Complex {
		insights = append(insights, Insight{
			Category:    CategorySuggestion,
			Title:       "Start with Medium Complexity",
			Description: "Consider piloting with medium complexity parts first to validate ROI before scaling to complex operations.",
			Impact:      ImpactMedium,
		})
	}

	extraVolume := in.MonthlyVolume * 0.2
	additionalSavings := extraVolume * (m.NetMonthlySavings / in.MonthlyVolume)
	insights = append(insights, Insight{
		Category: CategoryInfo,
		Title:    "Scale Opportunity",
		Description: fmt.Sprintf(
			"A 20%% volume increase (%s more parts) would add ₹%s/month in net savings.",
			inr.Number(inr.Round(extraVolume)), inr.Number(inr.Round(additionalSavings))),
		Impact: ImpactMedium,
	})

	return insights
}

// quickFixes lists the one-click adjustments offered when the case is not viable.
func (a Assumptions) quickFixes(in Inputs, m Metrics, be breakEven) []Adjustment {
	if m.IsViable {
		return nil
	}

	var fixes []Adjustment
	// The scrap fix targets the clamped rate, so it still offers the slider
	// maximum when the true break-even lies beyond it.
	if target := be.clampedScrapRate(); in.CurrentScrapRate < target {
		next := in
		next.CurrentScrapRate = math.Ceil(target)
		fixes = append(fixes, Adjustment{
			Label:  fmt.Sprintf("Set scrap to %s%%", inr.Plain(next.CurrentScrapRate)),
			Inputs: next,
		})
	}
	if be.laborAdvisable(in) {
		next := in
		next.LaborCostPerPart = math.Ceil(be.minLaborCost)
		fixes = append(fixes, Adjustment{
			Label:  fmt.Sprintf("Set labor cost to ₹%s", inr.Plain(next.LaborCostPerPart)),
			Inputs: next,
		})
	}
	if in.Complexity != Simple {
		next := in
		next.Complexity = Simple
		fixes = append(fixes, Adjustment{Label: "Try simple parts", Inputs: next})
	}
	return fixes
}
