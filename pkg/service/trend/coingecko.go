package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/utils/safe"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com"

// CoinGecko fetches trending coins from the free CoinGecko search API
type CoinGecko struct {
	httpClient *http.Client
	baseURL    string
}

// CoinGeckoOption configures the CoinGecko source
type CoinGeckoOption func(*CoinGecko)

// WithCoinGeckoBaseURL overrides the API endpoint, used in tests
func WithCoinGeckoBaseURL(baseURL string) CoinGeckoOption {
	return func(s *CoinGecko) {
		s.baseURL = baseURL
	}
}

// NewCoinGecko creates the CoinGecko trend source
func NewCoinGecko(opts ...CoinGeckoOption) *CoinGecko {
	s := &CoinGecko{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultCoinGeckoBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CoinGecko) Name() string {
	return "coingecko"
}

type coinGeckoTrendingResponse struct {
	Coins []struct {
		Item struct {
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank int    `json:"market_cap_rank"`
			Slug          string `json:"slug"`
		} `json:"item"`
	} `json:"coins"`
}

func (s *CoinGecko) Fetch(ctx context.Context, limit int) ([]*model.Trend, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v3/search/trending", nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch trending coins")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status from CoinGecko", goerr.V("status", resp.StatusCode))
	}

	var result coinGeckoTrendingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode trending coins")
	}

	coins := result.Coins
	if len(coins) > limit {
		coins = coins[:limit]
	}

	trends := make([]*model.Trend, 0, len(coins))
	for _, coin := range coins {
		item := coin.Item
		if item.Name == "" {
			continue
		}

		// A lower market cap rank means a bigger coin, invert it so the
		// cross-source sort prefers well-known coins
		score := 0
		if item.MarketCapRank > 0 && item.MarketCapRank < 1000 {
			score = 1000 - item.MarketCapRank
		}

		trends = append(trends, &model.Trend{
			Topic:    fmt.Sprintf("%s (%s)", item.Name, strings.ToUpper(item.Symbol)),
			Category: types.TrendCategoryCrypto,
			Score:    score,
			Source:   s.Name(),
			URL:      "https://www.coingecko.com/en/coins/" + item.Slug,
		})
	}

	return trends, nil
}
