package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type counterRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCounterRepository(client *firestore.Client) *counterRepository {
	return &counterRepository{client: client}
}

func (r *counterRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_daily_counters"
	}
	return "daily_counters"
}

// countersDoc is the Firestore document representation of model.DailyCounters
type countersDoc struct {
	Date             string    `firestore:"Date"`
	PostsCreated     int       `firestore:"PostsCreated"`
	RepliesCreated   int       `firestore:"RepliesCreated"`
	MentionsChecked  int       `firestore:"MentionsChecked"`
	VideosGenerated  int       `firestore:"VideosGenerated"`
	ImagesGenerated  int       `firestore:"ImagesGenerated"`
	LastMentionCheck time.Time `firestore:"LastMentionCheck"`
	CreatedAt        time.Time `firestore:"CreatedAt"`
	UpdatedAt        time.Time `firestore:"UpdatedAt"`
}

func (d *countersDoc) toModel() *model.DailyCounters {
	return &model.DailyCounters{
		Date:             d.Date,
		PostsCreated:     d.PostsCreated,
		RepliesCreated:   d.RepliesCreated,
		MentionsChecked:  d.MentionsChecked,
		VideosGenerated:  d.VideosGenerated,
		ImagesGenerated:  d.ImagesGenerated,
		LastMentionCheck: d.LastMentionCheck,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

var counterFieldPaths = map[types.CounterField]string{
	types.CounterPostsCreated:    "PostsCreated",
	types.CounterRepliesCreated:  "RepliesCreated",
	types.CounterMentionsChecked: "MentionsChecked",
	types.CounterVideosGenerated: "VideosGenerated",
	types.CounterImagesGenerated: "ImagesGenerated",
}

func (r *counterRepository) docRef(date string) *firestore.DocumentRef {
	return r.client.Collection(r.collection()).Doc("daily_" + date)
}

// ensure creates the zeroed record for the date if it does not exist.
// Create fails with AlreadyExists when another writer won the race, which
// is the desired at-most-one-record-per-date behavior.
func (r *counterRepository) ensure(ctx context.Context, date string) error {
	now := time.Now().UTC()
	_, err := r.docRef(date).Create(ctx, &countersDoc{
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return goerr.Wrap(err, "failed to create daily counters", goerr.V("date", date))
	}
	return nil
}

func (r *counterRepository) GetOrCreate(ctx context.Context, date string) (*model.DailyCounters, error) {
	if err := r.ensure(ctx, date); err != nil {
		return nil, err
	}
	return r.Get(ctx, date)
}

func (r *counterRepository) Get(ctx context.Context, date string) (*model.DailyCounters, error) {
	snap, err := r.docRef(date).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "daily counters not found", goerr.V("date", date))
		}
		return nil, goerr.Wrap(err, "failed to get daily counters", goerr.V("date", date))
	}

	var doc countersDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode daily counters", goerr.V("date", date))
	}

	return doc.toModel(), nil
}

// Increment applies a server-side atomic increment. Concurrent writers
// never lose updates; there is no read-modify-write.
func (r *counterRepository) Increment(ctx context.Context, date string, field types.CounterField, n int) error {
	path, ok := counterFieldPaths[field]
	if !ok {
		return goerr.New("invalid counter field", goerr.V("field", field))
	}

	if err := r.ensure(ctx, date); err != nil {
		return err
	}

	_, err := r.docRef(date).Update(ctx, []firestore.Update{
		{Path: path, Value: firestore.Increment(n)},
		{Path: "UpdatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to increment counter",
			goerr.V("date", date), goerr.V("field", field), goerr.V("n", n))
	}

	return nil
}

func (r *counterRepository) RecordMentionCheck(ctx context.Context, date string, now time.Time) error {
	if err := r.ensure(ctx, date); err != nil {
		return err
	}

	_, err := r.docRef(date).Update(ctx, []firestore.Update{
		{Path: "MentionsChecked", Value: firestore.Increment(1)},
		{Path: "LastMentionCheck", Value: now.UTC()},
		{Path: "UpdatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to record mention check", goerr.V("date", date))
	}

	return nil
}

func (r *counterRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := r.client.Collection(r.collection()).Where("CreatedAt", "<", cutoff.UTC())
	return deleteOlderThan(ctx, r.client, query)
}
