package usecase

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
)

const (
	trendsPerSource   = 5
	recentMemoryLimit = 5
)

// tickContext is everything the decision engine looks at for one tick
type tickContext struct {
	counters *tickCounters
	trends   []*model.Trend

	// variety context from the memory index
	recentTypes []types.ContentType
	lastTopics  []string
}

// gather collects trends, recent memory, and today's counters. Every input
// degrades independently: no trends, no history, and zeroed counters are
// all valid starting points for a decision.
func (uc *UseCases) gather(ctx context.Context) (*tickContext, error) {
	logger := logging.From(ctx)
	now := uc.now().In(uc.location)

	date := model.DateKey(now, uc.location)
	counters, err := newTickCounters(ctx, uc.repo.Counters(), date)
	if err != nil {
		// Quota checks fail open: a zeroed snapshot lets the tick proceed
		// and the hard limits still hold once the store recovers
		logger.Warn("failed to load daily counters, starting from zero",
			slog.String("date", date), slog.Any("error", err))
		counters = &tickCounters{
			repo:     uc.repo.Counters(),
			date:     date,
			snapshot: model.NewDailyCounters(date),
		}
	}

	tc := &tickContext{counters: counters}

	if uc.trends != nil {
		trends, err := uc.trends.Fetch(ctx, trendsPerSource)
		if err != nil {
			logger.Warn("failed to gather trends, continuing without",
				slog.Any("error", err))
		} else {
			tc.trends = trends
		}
	}

	recent, err := uc.memory.Recent(ctx, recentMemoryLimit)
	if err != nil {
		logger.Warn("failed to read recent memory, continuing without",
			slog.Any("error", err))
		return tc, nil
	}

	for _, rec := range recent {
		if !rec.Self {
			continue
		}
		if ct := rec.Metadata["content_type"]; ct != "" {
			tc.recentTypes = append(tc.recentTypes, types.ContentType(ct))
		}
		if topic := rec.Metadata["topic"]; topic != "" {
			tc.lastTopics = append(tc.lastTopics, topic)
		}
	}

	return tc, nil
}

// recentPostTexts returns the bot's own recent post texts for the composer
func (uc *UseCases) recentPostTexts(ctx context.Context) []string {
	recent, err := uc.memory.Recent(ctx, recentMemoryLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to read recent posts", slog.Any("error", err))
		return nil
	}

	var texts []string
	for _, rec := range recent {
		if rec.Self && rec.Content != "" {
			texts = append(texts, rec.Content)
		}
	}
	return texts
}
