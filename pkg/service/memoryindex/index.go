package memoryindex

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/interfaces"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
)

// Embedder turns text into an embedding vector. The composer satisfies
// this; tests use stubs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is the bot's content memory and dedup layer. It wraps the
// interaction repository with embedding generation and keeps the two reply
// fingerprint namespaces apart.
type Index struct {
	interactions interfaces.InteractionRepository
	replies      interfaces.ReplyRepository
	embedder     Embedder
}

// New creates a memory index. embedder may be nil, which disables
// similarity search but keeps exact-key dedup working.
func New(interactions interfaces.InteractionRepository, replies interfaces.ReplyRepository, embedder Embedder) *Index {
	return &Index{
		interactions: interactions,
		replies:      replies,
		embedder:     embedder,
	}
}

// Store records content in memory. Embedding failures degrade to a record
// without similarity data rather than losing the record.
func (x *Index) Store(ctx context.Context, id, content string, kind types.InteractionKind, meta map[string]string) error {
	var embedding []float32
	if x.embedder != nil && content != "" {
		vec, err := x.embedder.Embed(ctx, content)
		if err != nil {
			logging.From(ctx).Warn("failed to embed content, storing without embedding",
				slog.String("id", id), slog.Any("error", err))
		} else {
			embedding = vec
		}
	}

	return x.interactions.Put(ctx, &model.Interaction{
		ID:        id,
		Self:      kind != types.InteractionMentionIgnored,
		Content:   content,
		Kind:      kind,
		Embedding: embedding,
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	})
}

// Has reports whether a memory record exists for the id
func (x *Index) Has(ctx context.Context, id string) (bool, error) {
	return x.interactions.Exists(ctx, id)
}

// Recent returns the newest records, newest first
func (x *Index) Recent(ctx context.Context, limit int) ([]*model.Interaction, error) {
	return x.interactions.ListRecent(ctx, limit)
}

// MarkResponded flags a memory record as answered
func (x *Index) MarkResponded(ctx context.Context, id string) error {
	return x.interactions.MarkResponded(ctx, id)
}

// FindSimilar returns stored records within minSimilarity of the query
// text, best match first. When the embedder is missing or fails, the result
// is empty: novelty checks fail open so a broken embedder cannot silence
// the bot.
func (x *Index) FindSimilar(ctx context.Context, query string, limit int, minSimilarity float64) ([]*model.ScoredInteraction, error) {
	if x.embedder == nil {
		return nil, nil
	}

	embedding, err := x.embedder.Embed(ctx, query)
	if err != nil {
		logging.From(ctx).Warn("failed to embed query, skipping similarity search",
			slog.Any("error", err))
		return nil, nil
	}

	scored, err := x.interactions.FindNearest(ctx, embedding, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search memory")
	}

	results := make([]*model.ScoredInteraction, 0, len(scored))
	for _, s := range scored {
		if s.Similarity < minSimilarity {
			continue
		}
		results = append(results, s)
	}

	return results, nil
}

// HasRepliedTo reports whether we already replied to this tweet by this
// author
func (x *Index) HasRepliedTo(ctx context.Context, tweetID, author string) (bool, error) {
	return x.replies.HasReply(ctx, model.ReplyFingerprint(tweetID, author))
}

// RecordReplySent stores the sent-reply dedup record
func (x *Index) RecordReplySent(ctx context.Context, reply *model.SentReply) error {
	return x.replies.PutReply(ctx, reply)
}

// HasSeenMention reports whether this mention was already evaluated
func (x *Index) HasSeenMention(ctx context.Context, author, text, tweetID string) (bool, error) {
	return x.replies.HasSeen(ctx, model.MentionFingerprint(author, text, tweetID))
}

// RecordMentionSeen stores the seen-mention dedup record
func (x *Index) RecordMentionSeen(ctx context.Context, mention *model.SeenMention) error {
	return x.replies.PutSeen(ctx, mention)
}
