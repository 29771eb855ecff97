package config

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/service/media"
	"github.com/urfave/cli/v3"
)

// Media holds configuration for the media generator
type Media struct {
	generatorURL  string
	archiveBucket string
}

// Flags returns CLI flags for media configuration
func (m *Media) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "media-generator-url",
			Category:    "Media",
			Usage:       "Base URL of the media generator service (media posts disabled when empty)",
			Sources:     cli.EnvVars("PHANTOM_MEDIA_GENERATOR_URL"),
			Destination: &m.generatorURL,
		},
		&cli.StringFlag{
			Name:        "media-archive-bucket",
			Category:    "Media",
			Usage:       "GCS bucket for archiving generated media (disabled when empty)",
			Sources:     cli.EnvVars("PHANTOM_MEDIA_ARCHIVE_BUCKET"),
			Destination: &m.archiveBucket,
		},
	}
}

// Configure builds the media service and returns a closer for the GCS
// client. With no generator URL it returns nil and media content types fall
// back to plain text.
func (m *Media) Configure(ctx context.Context) (media.Service, func(), error) {
	closer := func() {}
	if m.generatorURL == "" {
		return nil, closer, nil
	}

	var opts []media.Option
	if m.archiveBucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create GCS client")
		}
		opts = append(opts, media.WithArchive(gcsClient, m.archiveBucket))
		closer = func() {
			_ = gcsClient.Close()
		}
	}

	return media.New(m.generatorURL, opts...), closer, nil
}
