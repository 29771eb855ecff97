package twitter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/service/twitter"
)

func TestPublishText(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodPost)
		gt.Value(t, r.URL.Path).Equal("/2/tweets")
		gotAuth = r.Header.Get("Authorization")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1234567890","text":"hello"}}`))
	}))
	defer srv.Close()

	svc := twitter.New("test-token", twitter.WithBaseURL(srv.URL))

	tweetID, err := svc.PublishText(context.Background(), "hello")
	gt.NoError(t, err)
	gt.Value(t, tweetID).Equal("1234567890")
	gt.Value(t, gotAuth).Equal("Bearer test-token")
	gt.Value(t, gotBody["text"]).Equal("hello")
	gt.Value(t, gotBody["reply"]).Nil()
}

func TestPublishReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		reply, ok := body["reply"].(map[string]any)
		gt.Bool(t, ok).True()
		gt.Value(t, reply["in_reply_to_tweet_id"]).Equal("9999")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"42","text":"re"}}`))
	}))
	defer srv.Close()

	svc := twitter.New("test-token", twitter.WithBaseURL(srv.URL))

	tweetID, err := svc.PublishReply(context.Background(), "re", "9999")
	gt.NoError(t, err)
	gt.Value(t, tweetID).Equal("42")
}

func TestPublishMedia(t *testing.T) {
	mediaPath := filepath.Join(t.TempDir(), "clip.mp4")
	gt.NoError(t, os.WriteFile(mediaPath, []byte("fake video bytes"), 0600))

	mux := http.NewServeMux()
	mux.HandleFunc("/2/media/upload", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseMultipartForm(1<<20))
		f, _, err := r.FormFile("media")
		gt.NoError(t, err)
		defer f.Close()

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":"media-1"}}`))
	})
	mux.HandleFunc("/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		media, ok := body["media"].(map[string]any)
		gt.Bool(t, ok).True()
		ids, ok := media["media_ids"].([]any)
		gt.Bool(t, ok).True()
		gt.Array(t, ids).Length(1)
		gt.Value(t, ids[0]).Equal("media-1")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"77","text":"with media"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := twitter.New("test-token", twitter.WithBaseURL(srv.URL))

	tweetID, err := svc.PublishMedia(context.Background(), "with media", mediaPath)
	gt.NoError(t, err)
	gt.Value(t, tweetID).Equal("77")
}

func TestPublishTextRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := twitter.New("test-token", twitter.WithBaseURL(srv.URL))

	_, err := svc.PublishText(context.Background(), "hello")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, twitter.ErrRateLimited)).True()
}

func TestPublishTextServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"not allowed"}`))
	}))
	defer srv.Close()

	svc := twitter.New("test-token", twitter.WithBaseURL(srv.URL))

	_, err := svc.PublishText(context.Background(), "hello")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, twitter.ErrRateLimited)).False()
}

func TestMentions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"bot-1","username":"phantom"}}`))
	})
	mux.HandleFunc("/2/users/bot-1/mentions", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("since_id")).Equal("100")
		gt.Value(t, r.URL.Query().Get("max_results")).Equal("10")

		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "101", "author_id": "u1", "text": "@phantom what do you think?", "conversation_id": "101", "created_at": "2026-08-01T12:00:00Z"},
				{"id": "102", "author_id": "u2", "text": "@phantom hello", "conversation_id": "102", "created_at": "2026-08-01T12:05:00Z"}
			],
			"includes": {
				"users": [
					{"id": "u1", "username": "alice", "name": "Alice"},
					{"id": "u2", "username": "bob", "name": "Bob"}
				]
			}
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := twitter.New("test-token", twitter.WithBaseURL(srv.URL))

	mentions, err := svc.Mentions(context.Background(), "100", 10)
	gt.NoError(t, err)
	gt.Array(t, mentions).Length(2)
	gt.Value(t, mentions[0].TweetID).Equal("101")
	gt.Value(t, mentions[0].AuthorUsername).Equal("alice")
	gt.Value(t, mentions[1].AuthorName).Equal("Bob")
}

func TestMentionsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"bot-1","username":"phantom"}}`))
	})
	mux.HandleFunc("/2/users/bot-1/mentions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"result_count":0}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := twitter.New("test-token", twitter.WithBaseURL(srv.URL))

	mentions, err := svc.Mentions(context.Background(), "", 10)
	gt.NoError(t, err)
	gt.Array(t, mentions).Length(0)
}
