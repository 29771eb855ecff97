package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
)

type counterRepository struct {
	mu      sync.Mutex
	records map[string]*model.DailyCounters
}

func newCounterRepository() *counterRepository {
	return &counterRepository{
		records: make(map[string]*model.DailyCounters),
	}
}

func (r *counterRepository) GetOrCreate(ctx context.Context, date string) (*model.DailyCounters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[date]
	if !exists {
		rec = model.NewDailyCounters(date)
		now := time.Now().UTC()
		rec.CreatedAt = now
		rec.UpdatedAt = now
		r.records[date] = rec
	}

	return rec.Clone(), nil
}

func (r *counterRepository) Get(ctx context.Context, date string) (*model.DailyCounters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[date]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "daily counters not found", goerr.V("date", date))
	}

	return rec.Clone(), nil
}

func (r *counterRepository) Increment(ctx context.Context, date string, field types.CounterField, n int) error {
	if !field.IsValid() {
		return goerr.New("invalid counter field", goerr.V("field", field))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[date]
	if !exists {
		rec = model.NewDailyCounters(date)
		rec.CreatedAt = time.Now().UTC()
		r.records[date] = rec
	}

	rec.Add(field, n)
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *counterRepository) RecordMentionCheck(ctx context.Context, date string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[date]
	if !exists {
		rec = model.NewDailyCounters(date)
		rec.CreatedAt = now.UTC()
		r.records[date] = rec
	}

	rec.Add(types.CounterMentionsChecked, 1)
	rec.LastMentionCheck = now.UTC()
	rec.UpdatedAt = now.UTC()
	return nil
}

func (r *counterRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for date, rec := range r.records {
		if rec.CreatedAt.Before(cutoff) {
			delete(r.records, date)
			deleted++
		}
	}

	return deleted, nil
}
