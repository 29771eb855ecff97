package cli

import (
	"context"
	"time"

	"github.com/secmon-lab/phantom/pkg/cli/config"
	"github.com/secmon-lab/phantom/pkg/usecase"
	"github.com/secmon-lab/phantom/pkg/utils/errutil"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
	"github.com/secmon-lab/phantom/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSweep() *cli.Command {
	var (
		repositoryCfg config.Repository
		retentionCfg  config.Retention
	)

	flags := repositoryCfg.Flags()
	flags = append(flags, retentionCfg.Flags()...)

	return &cli.Command{
		Name:    "sweep",
		Aliases: []string{"s"},
		Usage:   "Delete records past their retention window",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			ctx = logging.With(ctx, logger)

			retention, err := retentionCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := repositoryCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo, nil, usecase.WithRetention(retention))

			removed, err := uc.Sweep(ctx, time.Now())
			if err != nil {
				return errutil.Handle(ctx, err, "sweep failed")
			}

			for collection, count := range removed {
				logger.Info("swept collection", "collection", collection, "removed", count)
			}
			return nil
		},
	}
}
