package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Behavior holds per-run behavior flags
type Behavior struct {
	forcePost  bool
	forceVideo bool
	runCleanup bool
	timezone   string
}

// Flags returns CLI flags for behavior configuration
func (b *Behavior) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "force-post",
			Category:    "Behavior",
			Usage:       "Post this tick regardless of pacing targets (hard quota still applies)",
			Sources:     cli.EnvVars("PHANTOM_FORCE_POST"),
			Destination: &b.forcePost,
		},
		&cli.BoolFlag{
			Name:        "force-video",
			Category:    "Behavior",
			Usage:       "Force a video post this tick (video budget still applies)",
			Sources:     cli.EnvVars("PHANTOM_FORCE_VIDEO"),
			Destination: &b.forceVideo,
		},
		&cli.BoolFlag{
			Name:        "run-cleanup",
			Category:    "Behavior",
			Usage:       "Run the retention sweep at tick start",
			Value:       true,
			Sources:     cli.EnvVars("PHANTOM_RUN_CLEANUP"),
			Destination: &b.runCleanup,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Category:    "Behavior",
			Usage:       "IANA timezone for date keys and hour-of-day decisions",
			Value:       "UTC",
			Sources:     cli.EnvVars("PHANTOM_TIMEZONE"),
			Destination: &b.timezone,
		},
	}
}

// Configure returns the behavior flags and the resolved timezone
func (b *Behavior) Configure() (usecase.Behavior, *time.Location, error) {
	loc, err := time.LoadLocation(b.timezone)
	if err != nil {
		return usecase.Behavior{}, nil, goerr.Wrap(err, "invalid timezone", goerr.V("timezone", b.timezone))
	}

	return usecase.Behavior{
		ForcePost:  b.forcePost,
		ForceVideo: b.forceVideo,
		RunCleanup: b.runCleanup,
	}, loc, nil
}
