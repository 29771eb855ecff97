package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/model"
)

// ReplyRepository tracks the two reply dedup namespaces. Sent replies and
// seen mentions live in separate collections with separate retention
// windows and must never be conflated.
type ReplyRepository interface {
	PutReply(ctx context.Context, r *model.SentReply) error
	HasReply(ctx context.Context, key string) (bool, error)

	PutSeen(ctx context.Context, m *model.SeenMention) error
	HasSeen(ctx context.Context, key string) (bool, error)

	DeleteRepliesOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	DeleteSeenOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
