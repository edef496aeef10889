package slack

import (
	"fmt"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/Simplici0/automation-roi/internal/report"
	"github.com/Simplici0/automation-roi/internal/roi"
)

// BuildReportBlocks constructs Block Kit blocks for a summary report.
func BuildReportBlocks(s report.Summary) []slackapi.Block {
	header := slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("%s *%s*\n%s", statusEmoji(s.Status.Viable), s.Status.Headline, s.Status.Detail), false, false),
		nil, nil,
	)

	blocks := []slackapi.Block{
		header,
		slackapi.NewContextBlock("",
			slackapi.NewTextBlockObject(slackapi.MarkdownType, "Automation ROI summary · "+s.Date.Format("2 January 2006"), false, false)),
		slackapi.NewDividerBlock(),
		rowsBlock("Input Parameters", s.Parameters),
		rowsBlock("Monthly Breakdown", s.Breakdown),
		rowsBlock("Key Results", s.Results),
	}

	if len(s.Insights) > 0 {
		lines := make([]string, 0, len(s.Insights))
		for _, in := range s.Insights {
			lines = append(lines, fmt.Sprintf("%s *%s*\n%s", insightEmoji(in.Category), in.Title, in.Description))
		}
		blocks = append(blocks,
			slackapi.NewDividerBlock(),
			slackapi.NewSectionBlock(
				slackapi.NewTextBlockObject(slackapi.MarkdownType, strings.Join(lines, "\n\n"), false, false),
				nil, nil,
			),
		)
	}

	return blocks
}

// rowsBlock renders a report table as a section with two-column fields.
func rowsBlock(title string, rows []report.Row) *slackapi.SectionBlock {
	fields := make([]*slackapi.TextBlockObject, 0, len(rows))
	for _, r := range rows {
		fields = append(fields, slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("*%s*\n%s", r.Label, r.Value), false, false))
	}
	return slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, "*"+title+"*", false, false),
		fields, nil,
	)
}

func statusEmoji(viable bool) string {
	if viable {
		return ":white_check_mark:"
	}
	return ":warning:"
}

func insightEmoji(c roi.Category) string {
	switch c {
	case roi.CategoryAction:
		return ":dart:"
	case roi.CategorySuggestion:
		return ":bulb:"
	case roi.CategorySuccess:
		return ":tada:"
	default:
		return ":information_source:"
	}
}
