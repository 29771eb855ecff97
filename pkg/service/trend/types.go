package trend

import (
	"context"

	"github.com/secmon-lab/phantom/pkg/domain/model"
)

// Source fetches trending topics from one external site
type Source interface {
	// Name identifies the source in logs and trend records
	Name() string

	// Fetch returns up to limit trends. A failing source returns an error
	// and the aggregator moves on without it.
	Fetch(ctx context.Context, limit int) ([]*model.Trend, error)
}

// Service aggregates trends across all configured sources
type Service interface {
	// Fetch queries every source concurrently and returns the combined
	// trends sorted by descending score. Individual source failures are
	// logged and skipped; Fetch only fails when no source succeeds.
	Fetch(ctx context.Context, limitPerSource int) ([]*model.Trend, error)
}
