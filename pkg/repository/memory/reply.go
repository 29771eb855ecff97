package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
)

type replyRepository struct {
	mu      sync.RWMutex
	replies map[string]*model.SentReply
	seen    map[string]*model.SeenMention
}

func newReplyRepository() *replyRepository {
	return &replyRepository{
		replies: make(map[string]*model.SentReply),
		seen:    make(map[string]*model.SeenMention),
	}
}

func (r *replyRepository) PutReply(ctx context.Context, reply *model.SentReply) error {
	if reply.Key == "" {
		return goerr.New("reply key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *reply
	if stored.SentAt.IsZero() {
		stored.SentAt = time.Now().UTC()
	}
	r.replies[reply.Key] = &stored

	return nil
}

func (r *replyRepository) HasReply(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.replies[key]
	return exists, nil
}

func (r *replyRepository) PutSeen(ctx context.Context, m *model.SeenMention) error {
	if m.Key == "" {
		return goerr.New("mention key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *m
	if stored.SeenAt.IsZero() {
		stored.SeenAt = time.Now().UTC()
	}
	r.seen[m.Key] = &stored

	return nil
}

func (r *replyRepository) HasSeen(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.seen[key]
	return exists, nil
}

func (r *replyRepository) DeleteRepliesOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, reply := range r.replies {
		if reply.SentAt.Before(cutoff) {
			delete(r.replies, key)
			deleted++
		}
	}

	return deleted, nil
}

func (r *replyRepository) DeleteSeenOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for key, m := range r.seen {
		if m.SeenAt.Before(cutoff) {
			delete(r.seen, key)
			deleted++
		}
	}

	return deleted, nil
}
