package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
)

// Sweep deletes records past their retention window and returns the
// per-collection delete counts. Collections are swept independently so one
// failing store never blocks the others; re-running against the same data
// deletes nothing.
func (uc *UseCases) Sweep(ctx context.Context, now time.Time) (map[string]int, error) {
	logger := logging.From(ctx)
	removed := make(map[string]int)
	var errs []error

	sweepOne := func(name string, cutoff time.Time, del func(context.Context, time.Time) (int, error)) {
		n, err := del(ctx, cutoff)
		if err != nil {
			logger.Warn("failed to sweep collection",
				slog.String("collection", name), slog.Any("error", err))
			errs = append(errs, goerr.Wrap(err, "failed to sweep "+name))
			return
		}
		removed[name] = n
	}

	sweepOne("counters", now.Add(-uc.retention.Counters), uc.repo.Counters().DeleteOlderThan)
	sweepOne("interactions", now.Add(-uc.retention.Interactions), uc.repo.Interactions().DeleteOlderThan)
	sweepOne("sent_replies", now.Add(-uc.retention.SentReplies), uc.repo.Replies().DeleteRepliesOlderThan)
	sweepOne("seen_mentions", now.Add(-uc.retention.SeenMentions), uc.repo.Replies().DeleteSeenOlderThan)

	return removed, errors.Join(errs...)
}
