package slack

import (
	"context"
	"errors"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/Simplici0/automation-roi/internal/report"
)

// ErrNotConfigured is returned when sharing is attempted without a token or channel.
var ErrNotConfigured = errors.New("slack sharing is not configured")

// Config holds Slack notifier configuration.
type Config struct {
	BotToken string
	Channel  string
	APIURL   string // optional, overrides the Slack Web API base URL
}

// Notifier posts summary reports to a Slack channel.
type Notifier struct {
	client  *slackapi.Client
	channel string
}

// NewNotifier creates a Notifier. It returns ErrNotConfigured when the
// token or channel is missing.
func NewNotifier(cfg Config) (*Notifier, error) {
	if cfg.BotToken == "" || cfg.Channel == "" {
		return nil, ErrNotConfigured
	}

	var opts []slackapi.Option
	if cfg.APIURL != "" {
		opts = append(opts, slackapi.OptionAPIURL(cfg.APIURL))
	}

	return &Notifier{
		client:  slackapi.New(cfg.BotToken, opts...),
		channel: cfg.Channel,
	}, nil
}

// ShareReport posts the summary and returns the message timestamp.
func (n *Notifier) ShareReport(ctx context.Context, s report.Summary) (string, error) {
	_, ts, err := n.client.PostMessageContext(ctx, n.channel,
		slackapi.MsgOptionBlocks(BuildReportBlocks(s)...),
		slackapi.MsgOptionText(fmt.Sprintf("Automation ROI: %s (%s)", s.Status.Headline, s.Status.Detail), false),
	)
	if err != nil {
		return "", fmt.Errorf("slack ShareReport: %w", err)
	}
	return ts, nil
}
