package config

import (
	"log/slog"

	"github.com/secmon-lab/phantom/pkg/service/trend"
	"github.com/urfave/cli/v3"
)

// Trend holds configuration for the trend sources
type Trend struct {
	hackerNews  bool
	coinGecko   bool
	githubToken string
}

// Flags returns CLI flags for trend source configuration
func (t *Trend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "trend-hackernews",
			Category:    "Trends",
			Usage:       "Enable the Hacker News trend source",
			Value:       true,
			Sources:     cli.EnvVars("PHANTOM_TREND_HACKERNEWS"),
			Destination: &t.hackerNews,
		},
		&cli.BoolFlag{
			Name:        "trend-coingecko",
			Category:    "Trends",
			Usage:       "Enable the CoinGecko trend source",
			Value:       true,
			Sources:     cli.EnvVars("PHANTOM_TREND_COINGECKO"),
			Destination: &t.coinGecko,
		},
		&cli.StringFlag{
			Name:        "github-token",
			Category:    "Trends",
			Usage:       "GitHub token for the trending repository source (disabled when empty)",
			Sources:     cli.EnvVars("PHANTOM_GITHUB_TOKEN"),
			Destination: &t.githubToken,
		},
	}
}

func (t Trend) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("hackernews", t.hackerNews),
		slog.Bool("coingecko", t.coinGecko),
		slog.Bool("github", t.githubToken != ""),
	)
}

// Configure builds the trend aggregator over the enabled sources. With no
// sources enabled it returns nil and the tick runs without trends.
func (t *Trend) Configure() trend.Service {
	var sources []trend.Source
	if t.hackerNews {
		sources = append(sources, trend.NewHackerNews())
	}
	if t.coinGecko {
		sources = append(sources, trend.NewCoinGecko())
	}
	if t.githubToken != "" {
		sources = append(sources, trend.NewGitHub(t.githubToken))
	}

	if len(sources) == 0 {
		return nil
	}
	return trend.NewService(sources...)
}
