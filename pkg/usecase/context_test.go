package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
)

// failingCounters rejects every write so the local snapshot behavior can be
// observed in isolation.
type failingCounters struct {
	err error
}

func (f *failingCounters) GetOrCreate(ctx context.Context, date string) (*model.DailyCounters, error) {
	return nil, f.err
}

func (f *failingCounters) Get(ctx context.Context, date string) (*model.DailyCounters, error) {
	return nil, f.err
}

func (f *failingCounters) Increment(ctx context.Context, date string, field types.CounterField, n int) error {
	return f.err
}

func (f *failingCounters) RecordMentionCheck(ctx context.Context, date string, now time.Time) error {
	return f.err
}

func (f *failingCounters) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, f.err
}

func TestTickCountersAdvanceSnapshotOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC)
	date := model.DateKey(now, time.UTC)

	tc := &tickCounters{
		repo:     &failingCounters{err: errors.New("store unavailable")},
		date:     date,
		snapshot: model.NewDailyCounters(date),
	}

	gt.Error(t, tc.increment(ctx, types.CounterPostsCreated))
	gt.Value(t, tc.current().PostsCreated).Equal(1)

	gt.Error(t, tc.recordMentionCheck(ctx, now))
	gt.Value(t, tc.current().MentionsChecked).Equal(1)
	gt.Value(t, tc.current().LastMentionCheck).Equal(now.UTC())
}
