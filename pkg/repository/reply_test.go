package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/domain/interfaces"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/repository/memory"
)

func runReplyRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("PutReply and HasReply", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tweetID := fmt.Sprintf("tweet-%d", time.Now().UnixNano())
		reply := model.NewSentReply(tweetID, "someone", "original text", "our reply", "our-tweet-1")

		has, err := repo.Replies().HasReply(ctx, reply.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).False()

		gt.NoError(t, repo.Replies().PutReply(ctx, reply)).Required()

		has, err = repo.Replies().HasReply(ctx, reply.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).True()
	})

	t.Run("PutReply is idempotent on repeated key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tweetID := fmt.Sprintf("tweet-%d", time.Now().UnixNano())
		reply := model.NewSentReply(tweetID, "someone", "original", "first reply", "id-1")

		gt.NoError(t, repo.Replies().PutReply(ctx, reply)).Required()
		gt.NoError(t, repo.Replies().PutReply(ctx, reply)).Required()

		has, err := repo.Replies().HasReply(ctx, reply.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).True()
	})

	t.Run("PutReply rejects empty key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Replies().PutReply(ctx, &model.SentReply{})
		gt.Error(t, err)
	})

	t.Run("PutSeen and HasSeen", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tweetID := fmt.Sprintf("mention-%d", time.Now().UnixNano())
		seen := model.NewSeenMention("someone", "hey, what do you think?", tweetID, false, "low quality")

		has, err := repo.Replies().HasSeen(ctx, seen.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).False()

		gt.NoError(t, repo.Replies().PutSeen(ctx, seen)).Required()

		has, err = repo.Replies().HasSeen(ctx, seen.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).True()
	})

	t.Run("Reply and seen namespaces are separate", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		tweetID := fmt.Sprintf("tweet-%d", time.Now().UnixNano())
		reply := model.NewSentReply(tweetID, "someone", "text", "reply", "id-1")

		gt.NoError(t, repo.Replies().PutReply(ctx, reply)).Required()

		has, err := repo.Replies().HasSeen(ctx, reply.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).False()
	})

	t.Run("DeleteRepliesOlderThan removes only old replies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		nano := time.Now().UnixNano()
		oldReply := model.NewSentReply(fmt.Sprintf("old-%d", nano), "a", "t", "r", "1")
		oldReply.SentAt = time.Now().UTC().Add(-40 * 24 * time.Hour)
		newReply := model.NewSentReply(fmt.Sprintf("new-%d", nano), "b", "t", "r", "2")

		gt.NoError(t, repo.Replies().PutReply(ctx, oldReply)).Required()
		gt.NoError(t, repo.Replies().PutReply(ctx, newReply)).Required()

		deleted, err := repo.Replies().DeleteRepliesOlderThan(ctx, time.Now().UTC().Add(-30*24*time.Hour))
		gt.NoError(t, err).Required()
		gt.Number(t, deleted).GreaterOrEqual(1)

		has, err := repo.Replies().HasReply(ctx, oldReply.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).False()

		has, err = repo.Replies().HasReply(ctx, newReply.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).True()
	})

	t.Run("DeleteSeenOlderThan does not touch replies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		nano := time.Now().UnixNano()
		oldSeen := model.NewSeenMention("a", "old mention", fmt.Sprintf("old-%d", nano), false, "")
		oldSeen.SeenAt = time.Now().UTC().Add(-10 * 24 * time.Hour)
		reply := model.NewSentReply(fmt.Sprintf("kept-%d", nano), "b", "t", "r", "1")
		reply.SentAt = time.Now().UTC().Add(-10 * 24 * time.Hour)

		gt.NoError(t, repo.Replies().PutSeen(ctx, oldSeen)).Required()
		gt.NoError(t, repo.Replies().PutReply(ctx, reply)).Required()

		_, err := repo.Replies().DeleteSeenOlderThan(ctx, time.Now().UTC().Add(-7*24*time.Hour))
		gt.NoError(t, err).Required()

		has, err := repo.Replies().HasSeen(ctx, oldSeen.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).False()

		has, err = repo.Replies().HasReply(ctx, reply.Key)
		gt.NoError(t, err).Required()
		gt.Bool(t, has).True()
	})
}

func TestMemoryReplyRepository(t *testing.T) {
	runReplyRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreReplyRepository(t *testing.T) {
	runReplyRepositoryTest(t, newFirestoreRepository)
}
