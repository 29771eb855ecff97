package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// RetentionPolicy holds the per-class retention windows for the sweeper.
// Replies are kept longer than evaluated-but-skipped mentions, and counters
// longest of all for trend analysis.
type RetentionPolicy struct {
	Counters     time.Duration
	Interactions time.Duration
	SentReplies  time.Duration
	SeenMentions time.Duration
}

// DefaultRetentionPolicy returns the standard windows
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{
		Counters:     90 * 24 * time.Hour,
		Interactions: 14 * 24 * time.Hour,
		SentReplies:  30 * 24 * time.Hour,
		SeenMentions: 7 * 24 * time.Hour,
	}
}

// Validate checks that every window is positive
func (p RetentionPolicy) Validate() error {
	if p.Counters <= 0 || p.Interactions <= 0 || p.SentReplies <= 0 || p.SeenMentions <= 0 {
		return goerr.New("retention windows must be positive",
			goerr.V("counters", p.Counters),
			goerr.V("interactions", p.Interactions),
			goerr.V("sentReplies", p.SentReplies),
			goerr.V("seenMentions", p.SeenMentions))
	}
	return nil
}
