package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/interfaces"
	"google.golang.org/api/iterator"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("record not found")

// Firestore is the durable repository backend
type Firestore struct {
	client       *firestore.Client
	counters     *counterRepository
	interactions *interactionRepository
	replies      *replyRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, used to isolate
// test data from production collections
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.counters.collectionPrefix = prefix
		f.interactions.collectionPrefix = prefix
		f.replies.collectionPrefix = prefix
	}
}

// New creates a Firestore-backed repository
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:       client,
		counters:     newCounterRepository(client),
		interactions: newInteractionRepository(client),
		replies:      newReplyRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Counters() interfaces.CounterRepository {
	return f.counters
}

func (f *Firestore) Interactions() interfaces.InteractionRepository {
	return f.interactions
}

func (f *Firestore) Replies() interfaces.ReplyRepository {
	return f.replies
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// deleteOlderThan removes every document in the query result through a
// BulkWriter and returns the number deleted. Shared by the retention
// methods of all sub-repositories.
func deleteOlderThan(ctx context.Context, client *firestore.Client, query firestore.Query) (int, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	bw := client.BulkWriter(ctx)
	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return deleted, goerr.Wrap(err, "failed to iterate expired documents")
		}

		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return deleted, goerr.Wrap(err, "failed to enqueue delete", goerr.V("doc", doc.Ref.ID))
		}
		deleted++
	}
	bw.End()

	return deleted, nil
}
