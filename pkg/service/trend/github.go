package trend

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// GitHub fetches recently popular repositories via the GitHub GraphQL API.
// There is no official trending endpoint, so this searches for repositories
// created in the last week sorted by stars.
type GitHub struct {
	gql *githubv4.Client
}

// NewGitHub creates the GitHub trend source with a personal access token
func NewGitHub(token string) *GitHub {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	return &GitHub{gql: githubv4.NewClient(httpClient)}
}

// NewGitHubWithClient creates the source with a pre-built GraphQL client,
// used in tests
func NewGitHubWithClient(gql *githubv4.Client) *GitHub {
	return &GitHub{gql: gql}
}

func (s *GitHub) Name() string {
	return "github"
}

type trendingRepoQuery struct {
	Search struct {
		Edges []struct {
			Node struct {
				Repository struct {
					NameWithOwner   githubv4.String
					Description     githubv4.String
					StargazerCount  githubv4.Int
					URL             githubv4.String
					PrimaryLanguage struct {
						Name githubv4.String
					}
				} `graphql:"... on Repository"`
			}
		}
	} `graphql:"search(query: $query, type: REPOSITORY, first: $first)"`
}

func (s *GitHub) Fetch(ctx context.Context, limit int) ([]*model.Trend, error) {
	since := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	query := fmt.Sprintf("created:>%s stars:>50 sort:stars-desc", since)

	var q trendingRepoQuery
	variables := map[string]interface{}{
		"query": githubv4.String(query),
		"first": githubv4.Int(limit), // #nosec G115 -- limit is a small positive constant
	}

	if err := s.gql.Query(ctx, &q, variables); err != nil {
		return nil, goerr.Wrap(err, "failed to search trending repositories")
	}

	trends := make([]*model.Trend, 0, len(q.Search.Edges))
	for _, edge := range q.Search.Edges {
		repo := edge.Node.Repository
		if repo.NameWithOwner == "" {
			continue
		}

		topic := string(repo.NameWithOwner)
		if repo.Description != "" {
			topic = fmt.Sprintf("%s: %s", repo.NameWithOwner, repo.Description)
		}

		trends = append(trends, &model.Trend{
			Topic:    topic,
			Category: types.TrendCategoryTech,
			Score:    int(repo.StargazerCount),
			Source:   s.Name(),
			URL:      string(repo.URL),
		})
	}

	return trends, nil
}
