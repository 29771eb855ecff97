package trend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/service/trend"
)

type stubSource struct {
	name   string
	trends []*model.Trend
	err    error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, limit int) ([]*model.Trend, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.trends) > limit {
		return s.trends[:limit], nil
	}
	return s.trends, nil
}

func TestServiceFetchSortsByScore(t *testing.T) {
	svc := trend.NewService(
		&stubSource{name: "a", trends: []*model.Trend{
			{Topic: "low", Category: types.TrendCategoryTech, Score: 10, Source: "a"},
			{Topic: "high", Category: types.TrendCategoryTech, Score: 500, Source: "a"},
		}},
		&stubSource{name: "b", trends: []*model.Trend{
			{Topic: "mid", Category: types.TrendCategoryCrypto, Score: 100, Source: "b"},
		}},
	)

	trends, err := svc.Fetch(context.Background(), 5)
	gt.NoError(t, err)
	gt.Array(t, trends).Length(3)
	gt.Value(t, trends[0].Topic).Equal("high")
	gt.Value(t, trends[1].Topic).Equal("mid")
	gt.Value(t, trends[2].Topic).Equal("low")
}

func TestServiceFetchSkipsFailingSource(t *testing.T) {
	svc := trend.NewService(
		&stubSource{name: "broken", err: goerr.New("site is down")},
		&stubSource{name: "ok", trends: []*model.Trend{
			{Topic: "survivor", Category: types.TrendCategoryAI, Score: 42, Source: "ok"},
		}},
	)

	trends, err := svc.Fetch(context.Background(), 5)
	gt.NoError(t, err)
	gt.Array(t, trends).Length(1)
	gt.Value(t, trends[0].Topic).Equal("survivor")
}

func TestServiceFetchAllSourcesFailed(t *testing.T) {
	svc := trend.NewService(
		&stubSource{name: "broken1", err: goerr.New("down")},
		&stubSource{name: "broken2", err: goerr.New("down")},
	)

	_, err := svc.Fetch(context.Background(), 5)
	gt.Error(t, err)
}

func TestServiceFetchNormalizesCategories(t *testing.T) {
	svc := trend.NewService(
		&stubSource{name: "odd", trends: []*model.Trend{
			{Topic: "weird", Category: types.TrendCategory("news"), Score: 1, Source: "odd"},
		}},
	)

	trends, err := svc.Fetch(context.Background(), 5)
	gt.NoError(t, err)
	gt.Array(t, trends).Length(1)
	gt.Value(t, trends[0].Category).Equal(types.TrendCategoryGeneral)
}

func TestHackerNewsFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1001, 1002, 1003]`))
	})
	mux.HandleFunc("/v0/item/1001.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"New database written in Zig","score":320,"url":"https://example.com/db"}`))
	})
	mux.HandleFunc("/v0/item/1002.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Why we left the cloud","score":150,"url":"https://example.com/cloud"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := trend.NewHackerNews(trend.WithHackerNewsBaseURL(srv.URL))

	trends, err := src.Fetch(context.Background(), 2)
	gt.NoError(t, err)
	gt.Array(t, trends).Length(2)
	gt.Value(t, trends[0].Topic).Equal("New database written in Zig")
	gt.Value(t, trends[0].Score).Equal(320)
	gt.Value(t, trends[0].Category).Equal(types.TrendCategoryTech)
	gt.Value(t, trends[0].Source).Equal("hackernews")
}

func TestCoinGeckoFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/api/v3/search/trending")
		_, _ = w.Write([]byte(`{
			"coins": [
				{"item": {"name": "Bitcoin", "symbol": "btc", "market_cap_rank": 1, "slug": "bitcoin"}},
				{"item": {"name": "Obscurium", "symbol": "obs", "market_cap_rank": 950, "slug": "obscurium"}}
			]
		}`))
	}))
	defer srv.Close()

	src := trend.NewCoinGecko(trend.WithCoinGeckoBaseURL(srv.URL))

	trends, err := src.Fetch(context.Background(), 5)
	gt.NoError(t, err)
	gt.Array(t, trends).Length(2)
	gt.Value(t, trends[0].Topic).Equal("Bitcoin (BTC)")
	gt.Value(t, trends[0].Category).Equal(types.TrendCategoryCrypto)
	gt.Value(t, trends[0].Score).Equal(999)
	gt.Value(t, trends[1].Score).Equal(50)
}

func TestCoinGeckoFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := trend.NewCoinGecko(trend.WithCoinGeckoBaseURL(srv.URL))

	_, err := src.Fetch(context.Background(), 5)
	gt.Error(t, err)
}
