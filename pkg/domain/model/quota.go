package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Limits holds the configured daily quotas and budget caps. The platform
// free tier allows 17 tweets per day; everything else is a self-imposed
// spend cap. All policy functions and their tests derive from the same
// Limits value, never from independent constants.
type Limits struct {
	PostsPerDay          int
	RepliesPerDay        int
	VideosPerDay         int
	ImagesPerDay         int
	MentionCheckInterval time.Duration

	// Soft caps for engagement pacing, below the hard quota
	PeakPostTarget    int
	OffPeakPostTarget int
	PeakHourStart     int
	PeakHourEnd       int
}

// DefaultLimits returns the free-tier defaults
func DefaultLimits() Limits {
	return Limits{
		PostsPerDay:          17,
		RepliesPerDay:        3,
		VideosPerDay:         2,
		ImagesPerDay:         4,
		MentionCheckInterval: 15 * time.Minute,
		PeakPostTarget:       7,
		OffPeakPostTarget:    12,
		PeakHourStart:        9,
		PeakHourEnd:          21,
	}
}

// Validate checks that the limits are internally consistent
func (l Limits) Validate() error {
	if l.PostsPerDay <= 0 {
		return goerr.New("posts per day must be positive", goerr.V("value", l.PostsPerDay))
	}
	if l.RepliesPerDay < 0 || l.RepliesPerDay > l.PostsPerDay {
		return goerr.New("replies per day must be within the post limit",
			goerr.V("replies", l.RepliesPerDay), goerr.V("posts", l.PostsPerDay))
	}
	if l.VideosPerDay < 0 || l.ImagesPerDay < 0 {
		return goerr.New("media limits must be non-negative")
	}
	if l.MentionCheckInterval <= 0 {
		return goerr.New("mention check interval must be positive")
	}
	if l.PeakPostTarget > l.OffPeakPostTarget || l.OffPeakPostTarget > l.PostsPerDay {
		return goerr.New("soft caps must satisfy peak <= off-peak <= hard limit",
			goerr.V("peak", l.PeakPostTarget), goerr.V("offPeak", l.OffPeakPostTarget))
	}
	if l.PeakHourStart < 0 || l.PeakHourEnd > 23 || l.PeakHourStart > l.PeakHourEnd {
		return goerr.New("invalid peak hour window",
			goerr.V("start", l.PeakHourStart), goerr.V("end", l.PeakHourEnd))
	}
	return nil
}

// IsPeakHour reports whether the hour falls in the configured peak window
func (l Limits) IsPeakHour(hour int) bool {
	return hour >= l.PeakHourStart && hour <= l.PeakHourEnd
}

// Decision is a quota policy verdict. Reason is the user-facing message
// and is displayed by callers verbatim.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(format string, args ...any) Decision {
	return Decision{Allowed: true, Reason: fmt.Sprintf(format, args...)}
}

func deny(format string, args ...any) Decision {
	return Decision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// CanPost checks the daily post quota
func CanPost(c *DailyCounters, l Limits) Decision {
	if c.PostsCreated >= l.PostsPerDay {
		return deny("Daily post limit reached (%d/%d)", c.PostsCreated, l.PostsPerDay)
	}
	return allow("OK to post (%d/%d today)", c.PostsCreated, l.PostsPerDay)
}

// CanReply checks both reply sub-budgets: replies count against the
// platform tweet quota AND against the conservative reply target.
func CanReply(c *DailyCounters, l Limits) Decision {
	if c.TotalTweets() >= l.PostsPerDay {
		return deny("Daily tweet limit reached (%d/%d total)", c.TotalTweets(), l.PostsPerDay)
	}
	if c.RepliesCreated >= l.RepliesPerDay {
		return deny("Daily reply target reached (%d/%d) - saving quota",
			c.RepliesCreated, l.RepliesPerDay)
	}
	return allow("OK to reply (%d/%d replies, %d/%d total)",
		c.RepliesCreated, l.RepliesPerDay, c.TotalTweets(), l.PostsPerDay)
}

// CanCreateVideo checks the daily video generation cap
func CanCreateVideo(c *DailyCounters, l Limits) Decision {
	if c.VideosGenerated >= l.VideosPerDay {
		return deny("Daily video limit reached (%d/%d) - budget protection",
			c.VideosGenerated, l.VideosPerDay)
	}
	return allow("OK to create video (%d/%d today)", c.VideosGenerated, l.VideosPerDay)
}

// CanCreateImage checks the daily image generation cap
func CanCreateImage(c *DailyCounters, l Limits) Decision {
	if c.ImagesGenerated >= l.ImagesPerDay {
		return deny("Daily image limit reached (%d/%d)", c.ImagesGenerated, l.ImagesPerDay)
	}
	return allow("OK to create image (%d/%d today)", c.ImagesGenerated, l.ImagesPerDay)
}

// CanCheckMentions is a sliding-window rate limit on mention lookups, not a
// counter limit. The denial reason states the remaining wait in whole minutes.
func CanCheckMentions(c *DailyCounters, l Limits, now time.Time) Decision {
	if !c.LastMentionCheck.IsZero() {
		elapsed := now.Sub(c.LastMentionCheck)
		if elapsed < l.MentionCheckInterval {
			remaining := l.MentionCheckInterval - elapsed
			minutes := int((remaining + time.Minute - 1) / time.Minute)
			return deny("Rate limit: wait %d more minutes", minutes)
		}
	}
	return allow("OK to check mentions (%d checks today)", c.MentionsChecked)
}
