package model

import (
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/types"
)

// DailyCounters is the per-day quota record. One document exists per
// calendar day in the configured timezone; counters only ever increase
// within a day and a fresh date starts at zero.
type DailyCounters struct {
	Date             string
	PostsCreated     int
	RepliesCreated   int
	MentionsChecked  int
	VideosGenerated  int
	ImagesGenerated  int
	LastMentionCheck time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DateKey formats t as the per-day record key in the given timezone
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02")
}

// NewDailyCounters returns a zeroed record for the given date key
func NewDailyCounters(date string) *DailyCounters {
	return &DailyCounters{Date: date}
}

// Get returns the current value of a counter field
func (c *DailyCounters) Get(field types.CounterField) int {
	switch field {
	case types.CounterPostsCreated:
		return c.PostsCreated
	case types.CounterRepliesCreated:
		return c.RepliesCreated
	case types.CounterMentionsChecked:
		return c.MentionsChecked
	case types.CounterVideosGenerated:
		return c.VideosGenerated
	case types.CounterImagesGenerated:
		return c.ImagesGenerated
	default:
		return 0
	}
}

// Add increases a counter field by n. Used by the in-memory backend and the
// per-tick write-through cache; the durable backend increments server-side.
func (c *DailyCounters) Add(field types.CounterField, n int) {
	switch field {
	case types.CounterPostsCreated:
		c.PostsCreated += n
	case types.CounterRepliesCreated:
		c.RepliesCreated += n
	case types.CounterMentionsChecked:
		c.MentionsChecked += n
	case types.CounterVideosGenerated:
		c.VideosGenerated += n
	case types.CounterImagesGenerated:
		c.ImagesGenerated += n
	}
}

// TotalTweets is posts plus replies; both consume the platform's daily
// tweet quota.
func (c *DailyCounters) TotalTweets() int {
	return c.PostsCreated + c.RepliesCreated
}

// Clone returns a deep copy
func (c *DailyCounters) Clone() *DailyCounters {
	copied := *c
	return &copied
}
