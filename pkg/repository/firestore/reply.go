package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type replyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newReplyRepository(client *firestore.Client) *replyRepository {
	return &replyRepository{client: client}
}

func (r *replyRepository) repliesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_sent_replies"
	}
	return "sent_replies"
}

func (r *replyRepository) mentionsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_seen_mentions"
	}
	return "seen_mentions"
}

type sentReplyDoc struct {
	Key           string    `firestore:"Key"`
	TargetTweetID string    `firestore:"TargetTweetID"`
	TargetAuthor  string    `firestore:"TargetAuthor"`
	TargetText    string    `firestore:"TargetText"`
	OurReply      string    `firestore:"OurReply"`
	OurTweetID    string    `firestore:"OurTweetID,omitempty"`
	SentAt        time.Time `firestore:"SentAt"`
}

type seenMentionDoc struct {
	Key        string    `firestore:"Key"`
	Author     string    `firestore:"Author"`
	Text       string    `firestore:"Text"`
	TweetID    string    `firestore:"TweetID,omitempty"`
	Responded  bool      `firestore:"Responded"`
	SkipReason string    `firestore:"SkipReason,omitempty"`
	SeenAt     time.Time `firestore:"SeenAt"`
}

func (r *replyRepository) PutReply(ctx context.Context, v *model.SentReply) error {
	if v.Key == "" {
		return goerr.New("sent reply key is required")
	}

	sentAt := v.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.repliesCollection()).Doc(v.Key).Set(ctx, &sentReplyDoc{
		Key:           v.Key,
		TargetTweetID: v.TargetTweetID,
		TargetAuthor:  v.TargetAuthor,
		TargetText:    v.TargetText,
		OurReply:      v.OurReply,
		OurTweetID:    v.OurTweetID,
		SentAt:        sentAt,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put sent reply", goerr.V("key", v.Key))
	}

	return nil
}

func (r *replyRepository) HasReply(ctx context.Context, key string) (bool, error) {
	_, err := r.client.Collection(r.repliesCollection()).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to check sent reply", goerr.V("key", key))
	}
	return true, nil
}

func (r *replyRepository) PutSeen(ctx context.Context, v *model.SeenMention) error {
	if v.Key == "" {
		return goerr.New("seen mention key is required")
	}

	seenAt := v.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.mentionsCollection()).Doc(v.Key).Set(ctx, &seenMentionDoc{
		Key:        v.Key,
		Author:     v.Author,
		Text:       v.Text,
		TweetID:    v.TweetID,
		Responded:  v.Responded,
		SkipReason: v.SkipReason,
		SeenAt:     seenAt,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put seen mention", goerr.V("key", v.Key))
	}

	return nil
}

func (r *replyRepository) HasSeen(ctx context.Context, key string) (bool, error) {
	_, err := r.client.Collection(r.mentionsCollection()).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to check seen mention", goerr.V("key", key))
	}
	return true, nil
}

func (r *replyRepository) DeleteRepliesOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := r.client.Collection(r.repliesCollection()).Where("SentAt", "<", cutoff.UTC())
	return deleteOlderThan(ctx, r.client, query)
}

func (r *replyRepository) DeleteSeenOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query := r.client.Collection(r.mentionsCollection()).Where("SeenAt", "<", cutoff.UTC())
	return deleteOlderThan(ctx, r.client, query)
}
