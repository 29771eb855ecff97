package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/model"
)

// InteractionRepository stores the agent's content memory. Put on an
// existing identity key overwrites the record (last-write-wins); the record
// count never grows for a repeated key.
type InteractionRepository interface {
	Put(ctx context.Context, x *model.Interaction) error

	// Get returns ErrNotFound when the identity key is unknown
	Get(ctx context.Context, id string) (*model.Interaction, error)

	Exists(ctx context.Context, id string) (bool, error)

	// ListRecent returns up to limit records ordered newest first
	ListRecent(ctx context.Context, limit int) ([]*model.Interaction, error)

	// FindNearest returns up to limit records with embeddings, ordered by
	// descending cosine similarity to the query vector. Records without an
	// embedding are excluded, not scored as zero.
	FindNearest(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredInteraction, error)

	// MarkResponded sets the one-shot responded marker
	MarkResponded(ctx context.Context, id string) error

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
