package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/cli/config"
	"github.com/secmon-lab/phantom/pkg/service/composer"
	"github.com/secmon-lab/phantom/pkg/usecase"
	"github.com/secmon-lab/phantom/pkg/utils/errutil"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
	"github.com/secmon-lab/phantom/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdTick(sentryCfg *config.Sentry) *cli.Command {
	var (
		configPath    string
		repositoryCfg config.Repository
		geminiCfg     config.Gemini
		twitterCfg    config.Twitter
		trendCfg      config.Trend
		mediaCfg      config.Media
		notifyCfg     config.Notify
		quotaCfg      config.Quota
		retentionCfg  config.Retention
		behaviorCfg   config.Behavior
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML application config (persona and tone)",
			Required:    true,
			Sources:     cli.EnvVars("PHANTOM_CONFIG"),
			Destination: &configPath,
		},
	}
	flags = append(flags, repositoryCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, twitterCfg.Flags()...)
	flags = append(flags, trendCfg.Flags()...)
	flags = append(flags, mediaCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, quotaCfg.Flags()...)
	flags = append(flags, retentionCfg.Flags()...)
	flags = append(flags, behaviorCfg.Flags()...)

	return &cli.Command{
		Name:    "tick",
		Aliases: []string{"t"},
		Usage:   "Run one agent cycle: decide, generate, publish, record",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			ctx = logging.With(ctx, logger)

			appCfg, err := config.LoadAppConfiguration(configPath)
			if err != nil {
				return err
			}

			limits, err := quotaCfg.Configure()
			if err != nil {
				return err
			}
			retention, err := retentionCfg.Configure()
			if err != nil {
				return err
			}
			behavior, location, err := behaviorCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := repositoryCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return err
			}

			composerSvc, err := composer.New(llmClient, appCfg.Persona,
				composer.WithToneValidator(composer.NewToneValidator(appCfg.Tone.BannedPhrases...)))
			if err != nil {
				return goerr.Wrap(err, "failed to create composer")
			}

			publisher, err := twitterCfg.Configure()
			if err != nil {
				return err
			}

			mediaSvc, mediaCloser, err := mediaCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer mediaCloser()

			opts := []usecase.Option{
				usecase.WithComposer(composerSvc),
				usecase.WithPublisher(publisher),
				usecase.WithNotifier(notifyCfg.Configure()),
				usecase.WithLimits(limits),
				usecase.WithRetention(retention),
				usecase.WithBehavior(behavior),
				usecase.WithLocation(location),
			}
			if trendSvc := trendCfg.Configure(); trendSvc != nil {
				opts = append(opts, usecase.WithTrends(trendSvc))
			}
			if mediaSvc != nil {
				opts = append(opts, usecase.WithMedia(mediaSvc))
			}

			uc := usecase.New(repo, composerSvc, opts...)

			result, err := uc.Tick(ctx)
			if err != nil {
				sentryCfg.Capture(err)
				return errutil.Handle(ctx, err, "tick failed")
			}

			logger.Info("tick complete",
				"action", result.Action,
				"contentType", result.ContentType,
				"topic", result.Topic,
				"postID", result.PostID,
				"note", result.Err,
			)
			return nil
		},
	}
}
