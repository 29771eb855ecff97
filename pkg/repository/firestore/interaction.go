package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type interactionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newInteractionRepository(client *firestore.Client) *interactionRepository {
	return &interactionRepository{client: client}
}

func (r *interactionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_ai_memory"
	}
	return "ai_memory"
}

type interactionDoc struct {
	ID        string             `firestore:"ID"`
	Author    string             `firestore:"Author"`
	Self      bool               `firestore:"Self"`
	Content   string             `firestore:"Content"`
	Kind      string             `firestore:"Kind"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	Metadata  map[string]string  `firestore:"Metadata,omitempty"`
	Responded bool               `firestore:"Responded"`
	CreatedAt time.Time          `firestore:"CreatedAt"`

	// Populated by FindNearest via DistanceResultField, never stored
	VectorDistance float64 `firestore:"vector_distance,omitempty"`
}

func toInteractionDoc(v *model.Interaction) *interactionDoc {
	return &interactionDoc{
		ID:        v.ID,
		Author:    v.Author,
		Self:      v.Self,
		Content:   v.Content,
		Kind:      string(v.Kind),
		Embedding: firestore.Vector32(v.Embedding),
		Metadata:  v.Metadata,
		Responded: v.Responded,
		CreatedAt: v.CreatedAt,
	}
}

func (d *interactionDoc) toModel() *model.Interaction {
	return &model.Interaction{
		ID:        d.ID,
		Author:    d.Author,
		Self:      d.Self,
		Content:   d.Content,
		Kind:      types.InteractionKind(d.Kind),
		Embedding: []float32(d.Embedding),
		Metadata:  d.Metadata,
		Responded: d.Responded,
		CreatedAt: d.CreatedAt,
	}
}

func (r *interactionRepository) Put(ctx context.Context, v *model.Interaction) error {
	if v.ID == "" {
		return goerr.New("interaction ID is required")
	}

	doc := toInteractionDoc(v)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.collection()).Doc(v.ID).Set(ctx, doc)
	if err != nil {
		return goerr.Wrap(err, "failed to put interaction", goerr.V("id", v.ID))
	}

	return nil
}

func (r *interactionRepository) Get(ctx context.Context, id string) (*model.Interaction, error) {
	snap, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "interaction not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get interaction", goerr.V("id", id))
	}

	var doc interactionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode interaction", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *interactionRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to check interaction", goerr.V("id", id))
	}
	return true, nil
}

func (r *interactionRepository) ListRecent(ctx context.Context, limit int) ([]*model.Interaction, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var results []*model.Interaction
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list interactions")
		}

		var doc interactionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode interaction", goerr.V("id", snap.Ref.ID))
		}
		results = append(results, doc.toModel())
	}

	return results, nil
}

// FindNearest runs a vector search with cosine distance and converts the
// reported distance to similarity (1 - distance). Documents without an
// embedding are never indexed, so they cannot appear in results.
func (r *interactionRepository) FindNearest(ctx context.Context, embedding []float32, limit int) ([]*model.ScoredInteraction, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is empty")
	}

	iter := r.client.Collection(r.collection()).
		FindNearest("Embedding",
			firestore.Vector32(embedding),
			limit,
			firestore.DistanceMeasureCosine,
			&firestore.FindNearestOptions{
				DistanceResultField: "vector_distance",
			}).
		Documents(ctx)
	defer iter.Stop()

	var results []*model.ScoredInteraction
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search interactions")
		}

		var doc interactionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode interaction", goerr.V("id", snap.Ref.ID))
		}

		results = append(results, &model.ScoredInteraction{
			Interaction: doc.toModel(),
			Similarity:  1.0 - doc.VectorDistance,
		})
	}

	return results, nil
}

func (r *interactionRepository) MarkResponded(ctx context.Context, id string) error {
	_, err := r.client.Collection(r.collection()).Doc(id).Update(ctx, []firestore.Update{
		{Path: "Responded", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "interaction not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to mark interaction responded", goerr.V("id", id))
	}
	return nil
}

func (r *interactionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := r.client.Collection(r.collection()).Where("CreatedAt", "<", cutoff.UTC())
	return deleteOlderThan(ctx, r.client, query)
}
