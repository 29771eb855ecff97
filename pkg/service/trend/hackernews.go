package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/utils/safe"
)

const defaultHackerNewsBaseURL = "https://hacker-news.firebaseio.com"

// HackerNews fetches top stories from the official Hacker News API
type HackerNews struct {
	httpClient *http.Client
	baseURL    string
}

// HackerNewsOption configures the Hacker News source
type HackerNewsOption func(*HackerNews)

// WithHackerNewsBaseURL overrides the API endpoint, used in tests
func WithHackerNewsBaseURL(baseURL string) HackerNewsOption {
	return func(s *HackerNews) {
		s.baseURL = baseURL
	}
}

// NewHackerNews creates the Hacker News trend source
func NewHackerNews(opts ...HackerNewsOption) *HackerNews {
	s := &HackerNews{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultHackerNewsBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HackerNews) Name() string {
	return "hackernews"
}

type hnItem struct {
	Title string `json:"title"`
	Score int    `json:"score"`
	URL   string `json:"url"`
}

func (s *HackerNews) Fetch(ctx context.Context, limit int) ([]*model.Trend, error) {
	var storyIDs []int64
	if err := s.getJSON(ctx, s.baseURL+"/v0/topstories.json", &storyIDs); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch top stories")
	}

	if len(storyIDs) > limit {
		storyIDs = storyIDs[:limit]
	}

	trends := make([]*model.Trend, 0, len(storyIDs))
	for _, id := range storyIDs {
		var item hnItem
		if err := s.getJSON(ctx, fmt.Sprintf("%s/v0/item/%d.json", s.baseURL, id), &item); err != nil {
			return nil, goerr.Wrap(err, "failed to fetch story", goerr.V("id", id))
		}
		if item.Title == "" {
			continue
		}

		trends = append(trends, &model.Trend{
			Topic:    item.Title,
			Category: types.TrendCategoryTech,
			Score:    item.Score,
			Source:   s.Name(),
			URL:      item.URL,
		})
	}

	return trends, nil
}

func (s *HackerNews) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("url", url))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("url", url))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status", goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("url", url))
	}

	return nil
}
