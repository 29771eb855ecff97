package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
)

type interactionRepository struct {
	mu      sync.RWMutex
	records map[string]*model.Interaction
	// order tracks insertion so equal-similarity ties keep recency order
	order []string
}

func newInteractionRepository() *interactionRepository {
	return &interactionRepository{
		records: make(map[string]*model.Interaction),
	}
}

func (r *interactionRepository) Put(ctx context.Context, x *model.Interaction) error {
	if x.ID == "" {
		return goerr.New("interaction ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := x.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	// Last-write-wins: a repeated identity key replaces the record without
	// growing the count
	if _, exists := r.records[x.ID]; !exists {
		r.order = append(r.order, x.ID)
	}
	r.records[x.ID] = stored

	return nil
}

func (r *interactionRepository) Get(ctx context.Context, id string) (*model.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	x, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "interaction not found", goerr.V("id", id))
	}

	return x.Clone(), nil
}

func (r *interactionRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.records[id]
	return exists, nil
}

func (r *interactionRepository) ListRecent(ctx context.Context, limit int) ([]*model.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Interaction, 0, len(r.records))
	for _, x := range r.records {
		result = append(result, x.Clone())
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

func (r *interactionRepository) FindNearest(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredInteraction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := make([]*model.ScoredInteraction, 0, len(r.records))
	// Walk in insertion order so the stable sort preserves it on ties
	for i := len(r.order) - 1; i >= 0; i-- {
		x, exists := r.records[r.order[i]]
		if !exists {
			continue
		}
		if x.Embedding == nil {
			// No similarity data: excluded, never scored as zero
			continue
		}
		candidates = append(candidates, &model.ScoredInteraction{
			Interaction: x.Clone(),
			Similarity:  cosineSimilarity(embedding, x.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (r *interactionRepository) MarkResponded(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, exists := r.records[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "interaction not found", goerr.V("id", id))
	}

	x.Responded = true
	return nil
}

func (r *interactionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	kept := r.order[:0]
	for _, id := range r.order {
		x, exists := r.records[id]
		if !exists {
			continue
		}
		if x.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept

	return deleted, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
