package model

import "time"

// SentReply records a reply we published. At most one reply exists per
// (target tweet, target author) pair, enforced by lookup-before-write on
// the fingerprint key.
type SentReply struct {
	Key           string
	TargetTweetID string
	TargetAuthor  string
	TargetText    string
	OurReply      string
	OurTweetID    string
	SentAt        time.Time
}

// NewSentReply builds a reply record with its fingerprint key. Long target
// and reply texts are clipped so one record stays small.
func NewSentReply(targetTweetID, targetAuthor, targetText, ourReply, ourTweetID string) *SentReply {
	return &SentReply{
		Key:           ReplyFingerprint(targetTweetID, targetAuthor),
		TargetTweetID: targetTweetID,
		TargetAuthor:  targetAuthor,
		TargetText:    clip(targetText, 500),
		OurReply:      clip(ourReply, 300),
		OurTweetID:    ourTweetID,
	}
}

// SeenMention records that a mention was evaluated, whether or not we
// replied. Kept in a separate collection from SentReply: "have I replied"
// and "have I already evaluated" are different questions with different
// retention windows.
type SeenMention struct {
	Key        string
	Author     string
	Text       string
	TweetID    string
	Responded  bool
	SkipReason string
	SeenAt     time.Time
}

// NewSeenMention builds a seen-mention record with its fingerprint key
func NewSeenMention(author, text, tweetID string, responded bool, skipReason string) *SeenMention {
	return &SeenMention{
		Key:        MentionFingerprint(author, text, tweetID),
		Author:     author,
		Text:       clip(text, 500),
		TweetID:    tweetID,
		Responded:  responded,
		SkipReason: skipReason,
	}
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
