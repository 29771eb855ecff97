package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
)

// CounterRepository persists the per-day quota counters. Increments must be
// atomic on the backing store, never read-modify-write; a crashed process
// must not lose another process's updates.
type CounterRepository interface {
	// GetOrCreate returns the record for the date key, creating a zeroed
	// record atomically when absent.
	GetOrCreate(ctx context.Context, date string) (*model.DailyCounters, error)

	// Get returns ErrNotFound when no record exists for the date
	Get(ctx context.Context, date string) (*model.DailyCounters, error)

	// Increment adds n to one counter field atomically
	Increment(ctx context.Context, date string, field types.CounterField, n int) error

	// RecordMentionCheck increments mentions_checked and stamps the
	// sliding-window marker in one write
	RecordMentionCheck(ctx context.Context, date string, now time.Time) error

	// DeleteOlderThan removes records created before the cutoff and
	// returns the number deleted
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
