package trend

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

type service struct {
	sources []Source
}

// NewService creates a trend aggregator over the given sources
func NewService(sources ...Source) Service {
	return &service{sources: sources}
}

func (s *service) Fetch(ctx context.Context, limitPerSource int) ([]*model.Trend, error) {
	logger := logging.From(ctx)

	var mu sync.Mutex
	var trends []*model.Trend
	succeeded := 0

	var eg errgroup.Group
	for _, src := range s.sources {
		eg.Go(func() error {
			got, err := src.Fetch(ctx, limitPerSource)
			if err != nil {
				// One broken site must not take down the whole gather
				logger.Warn("trend source failed",
					slog.String("source", src.Name()), slog.Any("error", err))
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for _, t := range got {
				normalized := t.Normalize()
				trends = append(trends, &normalized)
			}
			succeeded++
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to gather trends")
	}

	if len(s.sources) > 0 && succeeded == 0 {
		return nil, goerr.New("all trend sources failed")
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].Score > trends[j].Score
	})

	logger.Info("gathered trends",
		slog.Int("count", len(trends)),
		slog.Int("sources", succeeded))

	return trends, nil
}
