package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/utils/safe"
)

// ErrRateLimited is returned when the API responds with 429. Callers must
// treat this as terminal for the current cycle, not retryable.
var ErrRateLimited = goerr.New("twitter API rate limited")

const defaultBaseURL = "https://api.x.com"

type client struct {
	httpClient *http.Client
	baseURL    string
	token      string

	// userID caches GET /2/users/me, resolved on first Mentions call
	userID string
}

// Option configures the client
type Option func(*client)

// WithBaseURL overrides the API endpoint, used in tests
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// New creates an X API v2 client authenticated with an OAuth2 user token
func New(token string, opts ...Option) Service {
	c := &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (c *client) PublishText(ctx context.Context, text string) (string, error) {
	return c.createTweet(ctx, &tweetRequest{Text: text})
}

func (c *client) PublishReply(ctx context.Context, text, inReplyToTweetID string) (string, error) {
	return c.createTweet(ctx, &tweetRequest{
		Text:  text,
		Reply: &tweetReply{InReplyToTweetID: inReplyToTweetID},
	})
}

func (c *client) PublishMedia(ctx context.Context, text, mediaPath string) (string, error) {
	mediaID, err := c.uploadMedia(ctx, mediaPath)
	if err != nil {
		return "", err
	}

	return c.createTweet(ctx, &tweetRequest{
		Text:  text,
		Media: &tweetMedia{MediaIDs: []string{mediaID}},
	})
}

func (c *client) createTweet(ctx context.Context, reqBody *tweetRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal tweet request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create tweet request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post tweet")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", goerr.Wrap(ErrRateLimited, "failed to post tweet")
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("unexpected status from tweet API",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(data)))
	}

	var result tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode tweet response")
	}
	if result.Data.ID == "" {
		return "", goerr.New("tweet API returned no tweet ID")
	}

	return result.Data.ID, nil
}

type mediaUploadResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	// Older response shape
	MediaIDString string `json:"media_id_string"`
}

func (c *client) uploadMedia(ctx context.Context, mediaPath string) (string, error) {
	f, err := os.Open(filepath.Clean(mediaPath))
	if err != nil {
		return "", goerr.Wrap(err, "failed to open media file", goerr.V("path", mediaPath))
	}
	defer safe.Close(ctx, f)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("media", filepath.Base(mediaPath))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create multipart form")
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", goerr.Wrap(err, "failed to read media file", goerr.V("path", mediaPath))
	}
	if err := mw.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize multipart form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/media/upload", &buf)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create media upload request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload media")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", goerr.Wrap(ErrRateLimited, "failed to upload media")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("unexpected status from media upload API",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(data)))
	}

	var result mediaUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode media upload response")
	}

	mediaID := result.Data.ID
	if mediaID == "" {
		mediaID = result.MediaIDString
	}
	if mediaID == "" {
		return "", goerr.New("media upload API returned no media ID")
	}

	return mediaID, nil
}

type usersMeResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

func (c *client) resolveUserID(ctx context.Context) (string, error) {
	if c.userID != "" {
		return c.userID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/2/users/me", nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create user lookup request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to look up authenticated user")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", goerr.Wrap(ErrRateLimited, "failed to look up authenticated user")
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("unexpected status from user lookup API",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(data)))
	}

	var result usersMeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode user lookup response")
	}
	if result.Data.ID == "" {
		return "", goerr.New("user lookup API returned no user ID")
	}

	c.userID = result.Data.ID
	return c.userID, nil
}

type mentionsResponse struct {
	Data []struct {
		ID             string    `json:"id"`
		AuthorID       string    `json:"author_id"`
		Text           string    `json:"text"`
		ConversationID string    `json:"conversation_id"`
		CreatedAt      time.Time `json:"created_at"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Name     string `json:"name"`
		} `json:"users"`
	} `json:"includes"`
}

func (c *client) Mentions(ctx context.Context, sinceID string, maxResults int) ([]*Mention, error) {
	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("max_results", fmt.Sprintf("%d", maxResults))
	query.Set("tweet.fields", "created_at,author_id,conversation_id")
	query.Set("expansions", "author_id")
	query.Set("user.fields", "username,name")
	if sinceID != "" {
		query.Set("since_id", sinceID)
	}

	endpoint := fmt.Sprintf("%s/2/users/%s/mentions?%s", c.baseURL, userID, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create mentions request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch mentions")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, goerr.Wrap(ErrRateLimited, "failed to fetch mentions")
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, goerr.New("unexpected status from mentions API",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(data)))
	}

	var result mentionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode mentions response")
	}

	users := make(map[string]struct{ username, name string }, len(result.Includes.Users))
	for _, u := range result.Includes.Users {
		users[u.ID] = struct{ username, name string }{u.Username, u.Name}
	}

	mentions := make([]*Mention, 0, len(result.Data))
	for _, tw := range result.Data {
		author := users[tw.AuthorID]
		mentions = append(mentions, &Mention{
			TweetID:        tw.ID,
			AuthorID:       tw.AuthorID,
			AuthorUsername: author.username,
			AuthorName:     author.name,
			Text:           tw.Text,
			ConversationID: tw.ConversationID,
			CreatedAt:      tw.CreatedAt,
		})
	}

	return mentions, nil
}
