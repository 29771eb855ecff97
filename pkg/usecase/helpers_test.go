package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/service/composer"
	"github.com/secmon-lab/phantom/pkg/service/twitter"
)

type stubTrends struct {
	trends []*model.Trend
	err    error
}

func (s *stubTrends) Fetch(ctx context.Context, limit int) ([]*model.Trend, error) {
	return s.trends, s.err
}

type stubComposer struct {
	postText    string
	mediaPrompt string
	postErr     error
	replyText   string
	replyErr    error

	lastPostInput  composer.PostInput
	lastReplyInput composer.ReplyInput
}

func (s *stubComposer) ComposePost(ctx context.Context, input composer.PostInput) (*composer.PostResult, error) {
	s.lastPostInput = input
	if s.postErr != nil {
		return nil, s.postErr
	}
	return &composer.PostResult{Text: s.postText, MediaPrompt: s.mediaPrompt}, nil
}

func (s *stubComposer) ComposeReply(ctx context.Context, input composer.ReplyInput) (string, error) {
	s.lastReplyInput = input
	if s.replyErr != nil {
		return "", s.replyErr
	}
	return s.replyText, nil
}

func (s *stubComposer) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, model.EmbeddingDimension)
	vec[0] = 1
	return vec, nil
}

type stubPublisher struct {
	postID string

	// publishErr fails every publish; mediaErr fails only media publishes;
	// failFirst fails only the first n
	publishErr error
	mediaErr   error
	failFirst  int

	mentions    []*twitter.Mention
	mentionsErr error

	textCalls  int
	mediaCalls int
	replyCalls int
	lastText   string
	lastMedia  string
	lastReply  string
	lastTarget string
}

func (s *stubPublisher) publish() (string, error) {
	if s.publishErr != nil {
		return "", s.publishErr
	}
	if s.failFirst > 0 {
		s.failFirst--
		return "", os.ErrDeadlineExceeded
	}
	return s.postID, nil
}

func (s *stubPublisher) PublishText(ctx context.Context, text string) (string, error) {
	s.textCalls++
	s.lastText = text
	return s.publish()
}

func (s *stubPublisher) PublishReply(ctx context.Context, text, inReplyToTweetID string) (string, error) {
	s.replyCalls++
	s.lastReply = text
	s.lastTarget = inReplyToTweetID
	return s.publish()
}

func (s *stubPublisher) PublishMedia(ctx context.Context, text, mediaPath string) (string, error) {
	s.mediaCalls++
	s.lastText = text
	s.lastMedia = mediaPath
	if s.mediaErr != nil {
		return "", s.mediaErr
	}
	return s.publish()
}

func (s *stubPublisher) Mentions(ctx context.Context, sinceID string, maxResults int) ([]*twitter.Mention, error) {
	return s.mentions, s.mentionsErr
}

type stubMedia struct {
	t     *testing.T
	err   error
	calls int

	// lastPath is the file handed to the caller, for checking cleanup
	lastPath string
}

func (s *stubMedia) Fetch(ctx context.Context, prompt string, contentType types.ContentType) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	path := filepath.Join(s.t.TempDir(), "media.mp4")
	if err := os.WriteFile(path, []byte("media"), 0600); err != nil {
		s.t.Fatalf("failed to write media file: %v", err)
	}
	s.lastPath = path
	return path, nil
}

type captureNotifier struct {
	results []*model.TickResult
}

func (n *captureNotifier) NotifyResult(ctx context.Context, result *model.TickResult) {
	n.results = append(n.results, result)
}

// tickTime is a fixed Tuesday at the given hour, UTC
func tickTime(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
}

func generalTrends() []*model.Trend {
	return []*model.Trend{
		{Topic: "weather patterns", Category: types.TrendCategoryGeneral, Score: 90, Source: "test"},
		{Topic: "local news", Category: types.TrendCategoryGeneral, Score: 50, Source: "test"},
	}
}

func techTrends() []*model.Trend {
	return []*model.Trend{
		{Topic: "Go 1.26", Category: types.TrendCategoryTech, Score: 300, Source: "test", URL: "https://example.com/go"},
		{Topic: "bitcoin", Category: types.TrendCategoryCrypto, Score: 200, Source: "test", URL: "https://example.com/btc"},
	}
}
