package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/repository/memory"
	"github.com/secmon-lab/phantom/pkg/usecase"
)

func TestSweepRemovesExpiredRecords(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := time.Now().UTC()

	uc := usecase.New(repo, nil)

	// interactions: 14 day window
	gt.NoError(t, repo.Interactions().Put(ctx, &model.Interaction{
		ID:        "stale-interaction",
		Content:   "old content",
		Kind:      types.InteractionPosted,
		CreatedAt: now.Add(-30 * 24 * time.Hour),
	})).Required()
	gt.NoError(t, repo.Interactions().Put(ctx, &model.Interaction{
		ID:      "fresh-interaction",
		Content: "new content",
		Kind:    types.InteractionPosted,
	})).Required()

	// sent replies: 30 day window
	staleReply := model.NewSentReply("t-1", "alice", "old", "old reply", "r-1")
	staleReply.SentAt = now.Add(-60 * 24 * time.Hour)
	gt.NoError(t, repo.Replies().PutReply(ctx, staleReply)).Required()
	gt.NoError(t, repo.Replies().PutReply(ctx,
		model.NewSentReply("t-2", "bob", "new", "new reply", "r-2"))).Required()

	// seen mentions: 7 day window
	staleSeen := model.NewSeenMention("carol", "old mention", "t-3", false, "test")
	staleSeen.SeenAt = now.Add(-10 * 24 * time.Hour)
	gt.NoError(t, repo.Replies().PutSeen(ctx, staleSeen)).Required()
	gt.NoError(t, repo.Replies().PutSeen(ctx,
		model.NewSeenMention("dave", "new mention", "t-4", true, ""))).Required()

	removed, err := uc.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Value(t, removed["interactions"]).Equal(1)
	gt.Value(t, removed["sent_replies"]).Equal(1)
	gt.Value(t, removed["seen_mentions"]).Equal(1)
	gt.Value(t, removed["counters"]).Equal(0)

	// fresh records survive
	exists, err := repo.Interactions().Exists(ctx, "fresh-interaction")
	gt.NoError(t, err)
	gt.Bool(t, exists).True()

	has, err := repo.Replies().HasReply(ctx, model.ReplyFingerprint("t-2", "bob"))
	gt.NoError(t, err)
	gt.Bool(t, has).True()

	has, err = repo.Replies().HasSeen(ctx, model.MentionFingerprint("dave", "new mention", "t-4"))
	gt.NoError(t, err)
	gt.Bool(t, has).True()

	// expired records are gone
	exists, err = repo.Interactions().Exists(ctx, "stale-interaction")
	gt.NoError(t, err)
	gt.Bool(t, exists).False()
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := time.Now().UTC()

	uc := usecase.New(repo, nil)

	gt.NoError(t, repo.Interactions().Put(ctx, &model.Interaction{
		ID:        "stale",
		Content:   "old",
		Kind:      types.InteractionPosted,
		CreatedAt: now.Add(-30 * 24 * time.Hour),
	})).Required()

	first, err := uc.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Value(t, first["interactions"]).Equal(1)

	second, err := uc.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Value(t, second["interactions"]).Equal(0)
}

func TestSweepHonorsCustomRetention(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := time.Now().UTC()

	uc := usecase.New(repo, nil, usecase.WithRetention(model.RetentionPolicy{
		Counters:     time.Hour,
		Interactions: time.Hour,
		SentReplies:  time.Hour,
		SeenMentions: time.Hour,
	}))

	gt.NoError(t, repo.Interactions().Put(ctx, &model.Interaction{
		ID:        "two-hours-old",
		Content:   "short lived",
		Kind:      types.InteractionPosted,
		CreatedAt: now.Add(-2 * time.Hour),
	})).Required()

	removed, err := uc.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Value(t, removed["interactions"]).Equal(1)
}
