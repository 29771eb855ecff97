package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/service/composer"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
)

const (
	mentionBatchSize = 10

	similarContextLimit  = 3
	minContextSimilarity = 0.3
)

// reply answers at most one new mention per tick. Mentions already
// evaluated or already answered are skipped and the skip is recorded, so
// the same mention never costs two LLM calls across runs.
func (uc *UseCases) reply(ctx context.Context, tc *tickContext, now time.Time) *model.TickResult {
	logger := logging.From(ctx)

	if ok := model.CanCheckMentions(tc.counters.current(), uc.limits, now); !ok.Allowed {
		return model.IdleResult(ok.Reason)
	}

	if err := tc.counters.recordMentionCheck(ctx, now); err != nil {
		logger.Warn("failed to record mention check", slog.Any("error", err))
	}

	mentions, err := uc.publisher.Mentions(ctx, "", mentionBatchSize)
	if err != nil {
		return &model.TickResult{
			Action: types.ActionReply,
			Err:    "failed to fetch mentions: " + err.Error(),
		}
	}
	if len(mentions) == 0 {
		return model.IdleResult("no new mentions")
	}

	for _, m := range mentions {
		seen, err := uc.memory.HasSeenMention(ctx, m.AuthorUsername, m.Text, m.TweetID)
		if err != nil {
			logger.Warn("failed to check seen mentions", slog.Any("error", err))
		}
		if seen {
			continue
		}

		replied, err := uc.memory.HasRepliedTo(ctx, m.TweetID, m.AuthorUsername)
		if err != nil {
			logger.Warn("failed to check sent replies", slog.Any("error", err))
		}
		if replied {
			uc.recordSkippedMention(ctx, m.AuthorUsername, m.Text, m.TweetID, "already replied")
			continue
		}

		return uc.answerMention(ctx, tc, m.AuthorUsername, m.Text, m.TweetID)
	}

	return model.IdleResult("no new mentions to answer")
}

func (uc *UseCases) answerMention(ctx context.Context, tc *tickContext, author, text, tweetID string) *model.TickResult {
	logger := logging.From(ctx)

	var similarTexts []string
	similar, err := uc.memory.FindSimilar(ctx, text, similarContextLimit, minContextSimilarity)
	if err != nil {
		logger.Warn("failed to search memory for context", slog.Any("error", err))
	}
	for _, s := range similar {
		similarTexts = append(similarTexts, s.Content)
	}

	replyText, err := uc.composer.ComposeReply(ctx, composer.ReplyInput{
		Author:       author,
		Text:         text,
		SimilarPosts: similarTexts,
	})
	if err != nil {
		logger.Info("skipping mention without a good reply",
			slog.String("tweetID", tweetID), slog.Any("error", err))
		uc.recordSkippedMention(ctx, author, text, tweetID, "no quality reply generated")
		return model.IdleResult("no quality reply generated for mention " + tweetID)
	}

	postID, err := uc.publishWithRetry(ctx, func() (string, error) {
		return uc.publisher.PublishReply(ctx, replyText, tweetID)
	})
	if err != nil {
		return &model.TickResult{
			Action: types.ActionReply,
			Err:    "failed to publish reply: " + err.Error(),
		}
	}

	uc.recordReply(ctx, tc, author, text, tweetID, replyText, postID)

	return &model.TickResult{
		Success: true,
		Action:  types.ActionReply,
		PostID:  postID,
	}
}

// recordReply applies a published reply's effects: both dedup namespaces,
// the reply counter, and the memory record. Each effect degrades
// independently; the reply is already on the platform at this point.
func (uc *UseCases) recordReply(ctx context.Context, tc *tickContext, author, text, tweetID, replyText, postID string) {
	logger := logging.From(ctx)

	if err := uc.memory.RecordReplySent(ctx, model.NewSentReply(tweetID, author, text, replyText, postID)); err != nil {
		logger.Warn("failed to record sent reply", slog.Any("error", err))
	}
	if err := uc.memory.RecordMentionSeen(ctx, model.NewSeenMention(author, text, tweetID, true, "")); err != nil {
		logger.Warn("failed to record seen mention", slog.Any("error", err))
	}
	if err := tc.counters.increment(ctx, types.CounterRepliesCreated); err != nil {
		logger.Warn("failed to increment reply counter", slog.Any("error", err))
	}
	if err := uc.memory.Store(ctx, postID, replyText, types.InteractionReply, map[string]string{
		"in_reply_to": tweetID,
		"author":      author,
	}); err != nil {
		logger.Warn("failed to store reply in memory", slog.Any("error", err))
	}

	// A mention skipped in a degraded run may have a memory record without a
	// seen-mention record. Answering it now flips its one-shot marker.
	fingerprint := model.MentionFingerprint(author, text, tweetID)
	if exists, err := uc.memory.Has(ctx, fingerprint); err == nil && exists {
		if err := uc.memory.MarkResponded(ctx, fingerprint); err != nil {
			logger.Warn("failed to mark mention as responded", slog.Any("error", err))
		}
	}
}

func (uc *UseCases) recordSkippedMention(ctx context.Context, author, text, tweetID, reason string) {
	logger := logging.From(ctx)

	if err := uc.memory.RecordMentionSeen(ctx, model.NewSeenMention(author, text, tweetID, false, reason)); err != nil {
		logger.Warn("failed to record skipped mention", slog.Any("error", err))
	}
	if err := uc.memory.Store(ctx, model.MentionFingerprint(author, text, tweetID), text,
		types.InteractionMentionIgnored, map[string]string{
			"author":      author,
			"skip_reason": reason,
		}); err != nil {
		logger.Warn("failed to store skipped mention", slog.Any("error", err))
	}
}
