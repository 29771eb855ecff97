package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/service/composer"
	"github.com/secmon-lab/phantom/pkg/service/twitter"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
	"github.com/secmon-lab/phantom/pkg/utils/safe"
)

const (
	publishAttempts = 3
	publishBackoff  = 2 * time.Second
)

// Tick runs one full cycle: sweep, gather, decide, generate, publish,
// record. It always returns a terminal result; the returned error marks
// failures the caller should report, never a partially applied tick.
func (uc *UseCases) Tick(ctx context.Context) (*model.TickResult, error) {
	logger := logging.From(ctx)
	now := uc.now().In(uc.location)

	if uc.behavior.RunCleanup {
		if removed, err := uc.Sweep(ctx, now); err != nil {
			logger.Warn("retention sweep failed, continuing tick", slog.Any("error", err))
		} else {
			logger.Info("retention sweep done", slog.Any("removed", removed))
		}
	}

	tc, err := uc.gather(ctx)
	if err != nil {
		result := &model.TickResult{Action: types.ActionIdle, Err: err.Error()}
		uc.notifier.NotifyResult(ctx, result)
		return result, err
	}

	d := uc.decide(tc, now)
	logger.Info("decision made",
		slog.String("action", d.Action.String()),
		slog.String("contentType", d.ContentType.String()),
		slog.String("topic", d.Topic),
		slog.String("reason", d.Reason))

	var result *model.TickResult
	switch d.Action {
	case types.ActionReply:
		result = uc.reply(ctx, tc, now)
	case types.ActionPost:
		result = uc.post(ctx, tc, d)
	default:
		result = model.IdleResult(d.Reason)
	}

	uc.notifier.NotifyResult(ctx, result)
	if !result.Success {
		return result, goerr.New(result.Err, goerr.V("action", result.Action))
	}
	return result, nil
}

// post generates, publishes, and records one post according to the
// decision. Generation failures end the tick cleanly: a bot with nothing
// good to say stays quiet.
func (uc *UseCases) post(ctx context.Context, tc *tickContext, d *model.Strategy) *model.TickResult {
	logger := logging.From(ctx)

	composed, err := uc.composer.ComposePost(ctx, composer.PostInput{
		Topic:       d.Topic,
		ContentType: d.ContentType,
		SourceURL:   d.SourceURL,
		RecentPosts: uc.recentPostTexts(ctx),
	})
	if err != nil || composed.Text == "" {
		reason := "no quality content generated"
		if err != nil {
			reason = "no quality content generated: " + err.Error()
		}
		logger.Info("skipping tick without content", slog.String("reason", reason))
		return &model.TickResult{
			Success:     true,
			Action:      types.ActionPost,
			ContentType: d.ContentType,
			Topic:       d.Topic,
			Err:         reason,
		}
	}

	text := composed.Text
	contentType := d.ContentType
	mediaUsed := false

	var postID string
	if contentType.NeedsMedia() && uc.media != nil {
		mediaPath, mediaErr := uc.media.Fetch(ctx, composed.MediaPrompt, contentType)
		if mediaErr != nil {
			logger.Warn("media generation failed, falling back to text",
				slog.Any("error", mediaErr))
			text = model.TruncateWithSuffix(text, d.SourceURL)
			contentType = types.ContentTypeText
			postID, err = uc.publishWithRetry(ctx, func() (string, error) {
				return uc.publisher.PublishText(ctx, text)
			})
		} else {
			defer safe.Remove(ctx, mediaPath)
			mediaUsed = true
			postID, err = uc.publishWithRetry(ctx, func() (string, error) {
				return uc.publisher.PublishMedia(ctx, text, mediaPath)
			})
			if err != nil && !errors.Is(err, twitter.ErrRateLimited) {
				// The media upload path is flakier than plain text; salvage
				// the composed content before giving up on the tick.
				logger.Warn("media publish failed, falling back to text",
					slog.Any("error", err))
				text = model.TruncateWithSuffix(text, d.SourceURL)
				contentType = types.ContentTypeText
				mediaUsed = false
				postID, err = uc.publishWithRetry(ctx, func() (string, error) {
					return uc.publisher.PublishText(ctx, text)
				})
			}
		}
	} else {
		if contentType.NeedsMedia() {
			// No media source configured; keep the topic but post it flat
			text = model.TruncateWithSuffix(text, d.SourceURL)
			contentType = types.ContentTypeText
			mediaUsed = false
		}
		postID, err = uc.publishWithRetry(ctx, func() (string, error) {
			return uc.publisher.PublishText(ctx, text)
		})
	}

	if err != nil {
		return &model.TickResult{
			Action:      types.ActionPost,
			ContentType: contentType,
			Topic:       d.Topic,
			Err:         "failed to publish post: " + err.Error(),
		}
	}

	uc.recordPost(ctx, tc, postID, text, contentType, d.Topic, mediaUsed)

	return &model.TickResult{
		Success:     true,
		Action:      types.ActionPost,
		ContentType: contentType,
		Topic:       d.Topic,
		PostID:      postID,
	}
}

// recordPost applies the post's effects: memory record first, then counter
// increments. A memory record that already exists for the post ID means a
// previous run got this far, so the increments are skipped rather than
// double counted.
func (uc *UseCases) recordPost(ctx context.Context, tc *tickContext, postID, text string, contentType types.ContentType, topic string, mediaUsed bool) {
	logger := logging.From(ctx)

	exists, err := uc.memory.Has(ctx, postID)
	if err != nil {
		logger.Warn("failed to check memory for post", slog.String("postID", postID), slog.Any("error", err))
	}
	if exists {
		logger.Info("post already recorded, skipping effects", slog.String("postID", postID))
		return
	}

	if err := uc.memory.Store(ctx, postID, text, types.InteractionPosted, map[string]string{
		"content_type": contentType.String(),
		"topic":        topic,
	}); err != nil {
		logger.Warn("failed to store post in memory", slog.Any("error", err))
	}

	if err := tc.counters.increment(ctx, types.CounterPostsCreated); err != nil {
		logger.Warn("failed to increment post counter", slog.Any("error", err))
	}

	if mediaUsed {
		field := types.CounterImagesGenerated
		if contentType == types.ContentTypeVideo {
			field = types.CounterVideosGenerated
		}
		if err := tc.counters.increment(ctx, field); err != nil {
			logger.Warn("failed to increment media counter",
				slog.String("field", field.String()), slog.Any("error", err))
		}
	}
}

// publishWithRetry attempts the publish up to publishAttempts times with
// exponential backoff. A platform rate limit ends the tick immediately:
// retrying against a 429 only burns more quota.
func (uc *UseCases) publishWithRetry(ctx context.Context, publish func() (string, error)) (string, error) {
	logger := logging.From(ctx)

	var lastErr error
	backoff := uc.backoff
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		postID, err := publish()
		if err == nil {
			return postID, nil
		}
		if errors.Is(err, twitter.ErrRateLimited) {
			return "", err
		}

		lastErr = err
		if attempt < publishAttempts {
			logger.Warn("publish attempt failed, retrying",
				slog.Int("attempt", attempt), slog.Any("error", err))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return "", goerr.Wrap(lastErr, "publish failed after retries",
		goerr.V("attempts", publishAttempts))
}
