package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/interfaces"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
)

// tickCounters is a write-through view of today's counters for one tick.
// Reads serve from the local snapshot; writes advance the snapshot even when
// the store rejects them, so quota checks inside the tick see their own
// effects and a flaky store cannot make the tick overspend.
type tickCounters struct {
	repo     interfaces.CounterRepository
	date     string
	snapshot *model.DailyCounters
}

func newTickCounters(ctx context.Context, repo interfaces.CounterRepository, date string) (*tickCounters, error) {
	snapshot, err := repo.GetOrCreate(ctx, date)
	if err != nil {
		return nil, err
	}

	return &tickCounters{
		repo:     repo,
		date:     date,
		snapshot: snapshot,
	}, nil
}

func (tc *tickCounters) current() *model.DailyCounters {
	return tc.snapshot
}

func (tc *tickCounters) increment(ctx context.Context, field types.CounterField) error {
	tc.snapshot.Add(field, 1)
	return tc.repo.Increment(ctx, tc.date, field, 1)
}

func (tc *tickCounters) recordMentionCheck(ctx context.Context, now time.Time) error {
	tc.snapshot.Add(types.CounterMentionsChecked, 1)
	tc.snapshot.LastMentionCheck = now.UTC()
	return tc.repo.RecordMentionCheck(ctx, tc.date, now)
}
