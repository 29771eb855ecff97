package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/repository/memory"
	"github.com/secmon-lab/phantom/pkg/service/twitter"
	"github.com/secmon-lab/phantom/pkg/usecase"
)

// newReplyTick builds a use case layer with the peak post target already
// met, so every tick lands on the reply branch
func newReplyTick(t *testing.T, repo *memory.Memory, pub *stubPublisher, cmp *stubComposer, now time.Time) *usecase.UseCases {
	ctx := context.Background()
	date := model.DateKey(now, time.UTC)
	gt.NoError(t, repo.Counters().Increment(ctx, date, types.CounterPostsCreated, 7)).Required()

	return usecase.New(repo, nil,
		usecase.WithComposer(cmp),
		usecase.WithPublisher(pub),
		usecase.WithPublishBackoff(time.Millisecond),
		usecase.WithClock(func() time.Time { return now }),
	)
}

func TestReplyRespectsMentionCheckWindow(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)
	date := model.DateKey(now, time.UTC)

	pub := &stubPublisher{mentions: []*twitter.Mention{{TweetID: "m-1", AuthorUsername: "alice", Text: "hello"}}}
	uc := newReplyTick(t, repo, pub, &stubComposer{replyText: "hi"}, now)

	// checked five minutes ago, window is fifteen
	gt.NoError(t, repo.Counters().RecordMentionCheck(ctx, date, now.Add(-5*time.Minute))).Required()

	result, err := uc.Tick(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Action).Equal(types.ActionIdle)
	gt.Bool(t, strings.Contains(result.Err, "wait")).True()
	gt.Value(t, pub.replyCalls).Equal(0)
}

func TestReplyIdlesWithoutMentions(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)

	pub := &stubPublisher{}
	uc := newReplyTick(t, repo, pub, &stubComposer{replyText: "hi"}, now)

	result, err := uc.Tick(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Action).Equal(types.ActionIdle)
	gt.Bool(t, strings.Contains(result.Err, "no new mentions")).True()

	// the check itself is still recorded against the rate window
	counters, err := repo.Counters().Get(ctx, model.DateKey(now, time.UTC))
	gt.NoError(t, err).Required()
	gt.Value(t, counters.MentionsChecked).Equal(1)
	gt.Bool(t, counters.LastMentionCheck.IsZero()).False()
}

func TestReplySkipsSeenMentions(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)

	pub := &stubPublisher{
		postID:   "tweet-1000",
		mentions: []*twitter.Mention{{TweetID: "m-1", AuthorUsername: "alice", Text: "seen before"}},
	}
	uc := newReplyTick(t, repo, pub, &stubComposer{replyText: "hi"}, now)

	gt.NoError(t, uc.Memory().RecordMentionSeen(ctx,
		model.NewSeenMention("alice", "seen before", "m-1", false, "test"))).Required()

	result, err := uc.Tick(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Action).Equal(types.ActionIdle)
	gt.Value(t, pub.replyCalls).Equal(0)
}

func TestReplySkipsAlreadyRepliedAuthors(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)

	pub := &stubPublisher{
		postID:   "tweet-1100",
		mentions: []*twitter.Mention{{TweetID: "m-2", AuthorUsername: "bob", Text: "ping again"}},
	}
	uc := newReplyTick(t, repo, pub, &stubComposer{replyText: "hi"}, now)

	gt.NoError(t, uc.Memory().RecordReplySent(ctx,
		model.NewSentReply("m-2", "bob", "original", "our reply", "tweet-old"))).Required()

	result, err := uc.Tick(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Action).Equal(types.ActionIdle)
	gt.Value(t, pub.replyCalls).Equal(0)

	// the skip itself is remembered so the mention is never re-evaluated
	seen, err := uc.Memory().HasSeenMention(ctx, "bob", "ping again", "m-2")
	gt.NoError(t, err)
	gt.Bool(t, seen).True()
}

func TestReplyAnswersFirstNewMention(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)

	pub := &stubPublisher{
		postID: "tweet-1200",
		mentions: []*twitter.Mention{
			{TweetID: "m-3", AuthorUsername: "carol", Text: "old news"},
			{TweetID: "m-4", AuthorUsername: "dave", Text: "fresh question"},
		},
	}
	cmp := &stubComposer{replyText: "good question"}
	uc := newReplyTick(t, repo, pub, cmp, now)

	gt.NoError(t, uc.Memory().RecordMentionSeen(ctx,
		model.NewSeenMention("carol", "old news", "m-3", true, ""))).Required()

	result, err := uc.Tick(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Success).True()
	gt.Value(t, result.Action).Equal(types.ActionReply)
	gt.Value(t, pub.replyCalls).Equal(1)
	gt.Value(t, pub.lastTarget).Equal("m-4")
	gt.Value(t, cmp.lastReplyInput.Author).Equal("dave")
}

func TestReplyMarksStrandedMentionRecordResponded(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)

	pub := &stubPublisher{
		postID:   "tweet-1300",
		mentions: []*twitter.Mention{{TweetID: "m-9", AuthorUsername: "frank", Text: "second chance"}},
	}
	uc := newReplyTick(t, repo, pub, &stubComposer{replyText: "worth answering after all"}, now)

	// a prior run stored the mention in memory but its seen-mention write
	// was lost, so the mention comes around again
	fingerprint := model.MentionFingerprint("frank", "second chance", "m-9")
	gt.NoError(t, uc.Memory().Store(ctx, fingerprint, "second chance",
		types.InteractionMentionIgnored, nil)).Required()

	result, err := uc.Tick(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Success).True()
	gt.Value(t, result.Action).Equal(types.ActionReply)
	gt.Value(t, pub.replyCalls).Equal(1)

	got, err := repo.Interactions().Get(ctx, fingerprint)
	gt.NoError(t, err).Required()
	gt.Bool(t, got.Responded).True()
}

func TestReplyComposerFailureSkipsMention(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)

	pub := &stubPublisher{
		mentions: []*twitter.Mention{{TweetID: "m-5", AuthorUsername: "eve", Text: "tough one"}},
	}
	uc := newReplyTick(t, repo, pub, &stubComposer{replyErr: errors.New("nothing good")}, now)

	result, err := uc.Tick(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Success).True()
	gt.Value(t, result.Action).Equal(types.ActionIdle)
	gt.Value(t, pub.replyCalls).Equal(0)

	// skipped, not forgotten: the same mention never costs another LLM call
	seen, err := uc.Memory().HasSeenMention(ctx, "eve", "tough one", "m-5")
	gt.NoError(t, err)
	gt.Bool(t, seen).True()

	counters, err := repo.Counters().Get(ctx, model.DateKey(now, time.UTC))
	gt.NoError(t, err).Required()
	gt.Value(t, counters.RepliesCreated).Equal(0)
}

func TestReplyFetchFailureFailsTick(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	now := tickTime(13)

	pub := &stubPublisher{mentionsErr: errors.New("api down")}
	uc := newReplyTick(t, repo, pub, &stubComposer{replyText: "hi"}, now)

	result, err := uc.Tick(ctx)
	gt.Error(t, err)
	gt.Bool(t, result.Success).False()
	gt.Bool(t, strings.Contains(result.Err, "failed to fetch mentions")).True()
}
