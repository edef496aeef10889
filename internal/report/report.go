package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Simplici0/automation-roi/internal/inr"
	"github.com/Simplici0/automation-roi/internal/roi"
)

const dateLayout = "2 January 2006"

// Row is one label/value line of a report table.
type Row struct {
	Label string
	Value string
}

// Status is the headline verdict of a report.
type Status struct {
	Viable   bool
	Headline string
	Detail   string
}

// Summary is the shareable, fully formatted report for one scenario.
type Summary struct {
	Date       time.Time
	Status     Status
	Parameters []Row
	Breakdown  []Row
	Results    []Row
	Formulas   []string
	Insights   []roi.Insight
}

// Build formats a scenario's inputs and results into a Summary.
func Build(a roi.Assumptions, in roi.Inputs, m roi.Metrics, advice roi.Advice, date time.Time) Summary {
	volume := inr.Number(in.MonthlyVolume)

	return Summary{
		Date:   date,
		Status: status(m),
		Parameters: []Row{
			{"Monthly Volume", volume + " parts"},
			{"Current Scrap Rate", inr.Plain(in.CurrentScrapRate) + "%"},
			{"Labor Cost/Part", "₹" + inr.Plain(in.LaborCostPerPart)},
			{"Part Complexity", in.Complexity.Label()},
			{"Service Rate", "₹" + inr.Plain(m.ServicePricePerPart) + "/part"},
		},
		Breakdown: []Row{
			{"Service Cost", "-" + inr.Currency(m.MonthlyServiceCost)},
			{"Scrap Savings", "+" + inr.Currency(m.ScrapSavings)},
			{"Labor Savings", "+" + inr.Currency(m.LaborSavings)},
			{"Net Monthly Savings", inr.Currency(m.NetMonthlySavings)},
		},
		Results: []Row{
			{"Upfront Investment", inr.Currency(a.UpfrontFee)},
			{"Payback Period", Payback(m.Payback)},
			{"Annual Net Savings", inr.Currency(m.AnnualNetSavings)},
			{"Annual ROI", inr.Fixed(m.AnnualROI, 0) + "%"},
			{"5-Year Cumulative", inr.Currency(m.FiveYearNet)},
		},
		Formulas: []string{
			fmt.Sprintf("Service Cost = %s × ₹%s = %s",
				volume, inr.Plain(m.ServicePricePerPart), inr.Currency(m.MonthlyServiceCost)),
			fmt.Sprintf("Scrap Savings = (%s%% - %s%%) × %s × ₹%s = %s",
				inr.Plain(in.CurrentScrapRate), inr.Plain(a.PostAutomationScrap), volume,
				inr.Fixed(m.CostPerDefectivePart, 2), inr.Currency(m.ScrapSavings)),
			fmt.Sprintf("Labor Savings = %s × ₹%s × %s%% = %s",
				volume, inr.Plain(in.LaborCostPerPart), inr.Plain(a.LaborEfficiencyGain*100), inr.Currency(m.LaborSavings)),
			fmt.Sprintf("Net Monthly = %s + %s - %s = %s",
				inr.Currency(m.ScrapSavings), inr.Currency(m.LaborSavings),
				inr.Currency(m.MonthlyServiceCost), inr.Currency(m.NetMonthlySavings)),
		},
		Insights: advice.Insights,
	}
}

// Payback renders a payback period, or "N/A" when it is unreachable.
func Payback(p roi.Payback) string {
	months, ok := p.Months()
	if !ok {
		return "N/A"
	}
	return inr.Fixed(months, 1) + " months"
}

func status(m roi.Metrics) Status {
	if !m.IsViable {
		return Status{
			Headline: "Review Parameters",
			Detail:   "See Profitability Guide for optimization tips",
		}
	}
	months, _ := m.Payback.Months()
	return Status{
		Viable:   true,
		Headline: "Automation Recommended",
		Detail:   inr.Fixed(months, 1) + " month payback period",
	}
}

// Text renders the summary as a plain-text report.
func (s Summary) Text() string {
	var b strings.Builder

	b.WriteString("Automation ROI Summary Report\n")
	fmt.Fprintf(&b, "Date: %s\n", s.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Status: %s (%s)\n", s.Status.Headline, s.Status.Detail)

	writeSection(&b, "Input Parameters", s.Parameters)
	writeSection(&b, "Monthly Breakdown", s.Breakdown)
	writeSection(&b, "Key Results", s.Results)

	if len(s.Insights) > 0 {
		b.WriteString("\nProfitability Guide:\n")
		for i, insight := range s.Insights {
			fmt.Fprintf(&b, "%d. [%s/%s] %s: %s\n", i+1, insight.Category, insight.Impact, insight.Title, insight.Description)
		}
	}

	b.WriteString("\nFormula Reference:\n")
	for _, f := range s.Formulas {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	return b.String()
}

func writeSection(b *strings.Builder, title string, rows []Row) {
	fmt.Fprintf(b, "\n%s:\n", title)
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "- %s:\t%s\n", r.Label, r.Value)
	}
	_ = tw.Flush()
}
