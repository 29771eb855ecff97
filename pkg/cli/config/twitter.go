package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/service/twitter"
	"github.com/urfave/cli/v3"
)

// Twitter holds configuration for the X (Twitter) API client
type Twitter struct {
	bearerToken string
}

// Flags returns CLI flags for Twitter configuration
func (x *Twitter) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "twitter-bearer-token",
			Category:    "Twitter",
			Usage:       "OAuth 2.0 bearer token for the X API",
			Sources:     cli.EnvVars("PHANTOM_TWITTER_BEARER_TOKEN"),
			Destination: &x.bearerToken,
		},
	}
}

func (x Twitter) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bearer-token.len", len(x.bearerToken)),
	)
}

// Configure creates the X API client from the configured flags
func (x *Twitter) Configure() (twitter.Service, error) {
	if x.bearerToken == "" {
		return nil, goerr.New("twitter-bearer-token is required")
	}
	return twitter.New(x.bearerToken), nil
}
