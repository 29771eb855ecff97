package config

import (
	"log/slog"

	"github.com/secmon-lab/phantom/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Notify holds configuration for tick-outcome notification
type Notify struct {
	slackWebhookURL string
}

// Flags returns CLI flags for notification configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Category:    "Notification",
			Usage:       "Slack incoming webhook URL for tick results (disabled when empty)",
			Sources:     cli.EnvVars("PHANTOM_SLACK_WEBHOOK_URL"),
			Destination: &n.slackWebhookURL,
		},
	}
}

func (n Notify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("slack", n.slackWebhookURL != ""),
	)
}

// Configure returns the notifier, or a no-op when no webhook is set
func (n *Notify) Configure() notify.Service {
	if n.slackWebhookURL == "" {
		return notify.Nop{}
	}
	return notify.NewSlack(n.slackWebhookURL)
}
