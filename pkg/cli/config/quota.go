package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Quota holds CLI flags for the daily limits and budget caps
type Quota struct {
	postsPerDay          int
	repliesPerDay        int
	videosPerDay         int
	imagesPerDay         int
	mentionCheckInterval time.Duration
	peakPostTarget       int
	offPeakPostTarget    int
	peakHourStart        int
	peakHourEnd          int
}

// Flags returns CLI flags for quota configuration
func (q *Quota) Flags() []cli.Flag {
	defaults := model.DefaultLimits()
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "posts-per-day",
			Category:    "Quota",
			Usage:       "Hard daily tweet limit",
			Value:       defaults.PostsPerDay,
			Sources:     cli.EnvVars("PHANTOM_POSTS_PER_DAY"),
			Destination: &q.postsPerDay,
		},
		&cli.IntFlag{
			Name:        "replies-per-day",
			Category:    "Quota",
			Usage:       "Daily reply target (counted within the tweet limit)",
			Value:       defaults.RepliesPerDay,
			Sources:     cli.EnvVars("PHANTOM_REPLIES_PER_DAY"),
			Destination: &q.repliesPerDay,
		},
		&cli.IntFlag{
			Name:        "videos-per-day",
			Category:    "Quota",
			Usage:       "Daily video generation budget",
			Value:       defaults.VideosPerDay,
			Sources:     cli.EnvVars("PHANTOM_VIDEOS_PER_DAY"),
			Destination: &q.videosPerDay,
		},
		&cli.IntFlag{
			Name:        "images-per-day",
			Category:    "Quota",
			Usage:       "Daily image generation budget",
			Value:       defaults.ImagesPerDay,
			Sources:     cli.EnvVars("PHANTOM_IMAGES_PER_DAY"),
			Destination: &q.imagesPerDay,
		},
		&cli.DurationFlag{
			Name:        "mention-check-interval",
			Category:    "Quota",
			Usage:       "Minimum interval between mention lookups",
			Value:       defaults.MentionCheckInterval,
			Sources:     cli.EnvVars("PHANTOM_MENTION_CHECK_INTERVAL"),
			Destination: &q.mentionCheckInterval,
		},
		&cli.IntFlag{
			Name:        "peak-post-target",
			Category:    "Quota",
			Usage:       "Soft post cap during peak hours",
			Value:       defaults.PeakPostTarget,
			Sources:     cli.EnvVars("PHANTOM_PEAK_POST_TARGET"),
			Destination: &q.peakPostTarget,
		},
		&cli.IntFlag{
			Name:        "off-peak-post-target",
			Category:    "Quota",
			Usage:       "Soft post cap outside peak hours",
			Value:       defaults.OffPeakPostTarget,
			Sources:     cli.EnvVars("PHANTOM_OFF_PEAK_POST_TARGET"),
			Destination: &q.offPeakPostTarget,
		},
		&cli.IntFlag{
			Name:        "peak-hour-start",
			Category:    "Quota",
			Usage:       "First hour of the peak window (local time)",
			Value:       defaults.PeakHourStart,
			Sources:     cli.EnvVars("PHANTOM_PEAK_HOUR_START"),
			Destination: &q.peakHourStart,
		},
		&cli.IntFlag{
			Name:        "peak-hour-end",
			Category:    "Quota",
			Usage:       "Last hour of the peak window (local time)",
			Value:       defaults.PeakHourEnd,
			Sources:     cli.EnvVars("PHANTOM_PEAK_HOUR_END"),
			Destination: &q.peakHourEnd,
		},
	}
}

// Configure builds and validates the limits
func (q *Quota) Configure() (model.Limits, error) {
	limits := model.Limits{
		PostsPerDay:          q.postsPerDay,
		RepliesPerDay:        q.repliesPerDay,
		VideosPerDay:         q.videosPerDay,
		ImagesPerDay:         q.imagesPerDay,
		MentionCheckInterval: q.mentionCheckInterval,
		PeakPostTarget:       q.peakPostTarget,
		OffPeakPostTarget:    q.offPeakPostTarget,
		PeakHourStart:        q.peakHourStart,
		PeakHourEnd:          q.peakHourEnd,
	}
	if err := limits.Validate(); err != nil {
		return model.Limits{}, goerr.Wrap(err, "invalid quota configuration")
	}
	return limits, nil
}

// Retention holds CLI flags for the sweeper's retention windows
type Retention struct {
	counters     time.Duration
	interactions time.Duration
	sentReplies  time.Duration
	seenMentions time.Duration
}

// Flags returns CLI flags for retention configuration
func (r *Retention) Flags() []cli.Flag {
	defaults := model.DefaultRetentionPolicy()
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "retention-counters",
			Category:    "Retention",
			Usage:       "Retention window for daily counters",
			Value:       defaults.Counters,
			Sources:     cli.EnvVars("PHANTOM_RETENTION_COUNTERS"),
			Destination: &r.counters,
		},
		&cli.DurationFlag{
			Name:        "retention-interactions",
			Category:    "Retention",
			Usage:       "Retention window for memory records",
			Value:       defaults.Interactions,
			Sources:     cli.EnvVars("PHANTOM_RETENTION_INTERACTIONS"),
			Destination: &r.interactions,
		},
		&cli.DurationFlag{
			Name:        "retention-sent-replies",
			Category:    "Retention",
			Usage:       "Retention window for sent reply records",
			Value:       defaults.SentReplies,
			Sources:     cli.EnvVars("PHANTOM_RETENTION_SENT_REPLIES"),
			Destination: &r.sentReplies,
		},
		&cli.DurationFlag{
			Name:        "retention-seen-mentions",
			Category:    "Retention",
			Usage:       "Retention window for seen mention records",
			Value:       defaults.SeenMentions,
			Sources:     cli.EnvVars("PHANTOM_RETENTION_SEEN_MENTIONS"),
			Destination: &r.seenMentions,
		},
	}
}

// Configure builds and validates the retention policy
func (r *Retention) Configure() (model.RetentionPolicy, error) {
	policy := model.RetentionPolicy{
		Counters:     r.counters,
		Interactions: r.interactions,
		SentReplies:  r.sentReplies,
		SeenMentions: r.seenMentions,
	}
	if err := policy.Validate(); err != nil {
		return model.RetentionPolicy{}, goerr.Wrap(err, "invalid retention configuration")
	}
	return policy, nil
}
