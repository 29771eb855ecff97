package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// Service reports tick outcomes to an operator channel. Notification is
// best-effort: a failure is logged and never fails the tick.
type Service interface {
	NotifyResult(ctx context.Context, result *model.TickResult)
}

type slackNotifier struct {
	webhookURL string
}

// NewSlack creates a Slack webhook notifier
func NewSlack(webhookURL string) Service {
	return &slackNotifier{webhookURL: webhookURL}
}

func (n *slackNotifier) NotifyResult(ctx context.Context, result *model.TickResult) {
	msg := &slack.WebhookMessage{
		Text: formatResult(result),
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		logging.From(ctx).Warn("failed to send slack notification", slog.Any("error", err))
	}
}

func formatResult(result *model.TickResult) string {
	if result.Action == types.ActionIdle {
		if result.Err != "" {
			return fmt.Sprintf(":zzz: idle tick: %s", result.Err)
		}
		return ":zzz: idle tick"
	}

	if !result.Success {
		return fmt.Sprintf(":x: tick failed: %s", result.Err)
	}

	if result.Action == types.ActionReply {
		return fmt.Sprintf(":speech_balloon: replied (tweet %s)", result.PostID)
	}
	return fmt.Sprintf(":white_check_mark: posted %s on %q (tweet %s)",
		result.ContentType, result.Topic, result.PostID)
}

// Nop is used when no webhook is configured
type Nop struct{}

func (Nop) NotifyResult(context.Context, *model.TickResult) {}
