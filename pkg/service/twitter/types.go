package twitter

import (
	"context"
	"time"
)

// Service provides the X (Twitter) API operations the bot needs: publishing
// posts and replies, uploading media, and polling mentions.
type Service interface {
	// PublishText posts a plain text tweet and returns the new tweet ID
	PublishText(ctx context.Context, text string) (string, error)

	// PublishReply posts a reply to the given tweet
	PublishReply(ctx context.Context, text, inReplyToTweetID string) (string, error)

	// PublishMedia uploads the file at mediaPath and posts a tweet
	// referencing it
	PublishMedia(ctx context.Context, text, mediaPath string) (string, error)

	// Mentions fetches mentions of the authenticated user newer than
	// sinceID. An empty sinceID fetches the most recent mentions.
	Mentions(ctx context.Context, sinceID string, maxResults int) ([]*Mention, error)
}

// Mention is one tweet that mentions the bot
type Mention struct {
	TweetID        string
	AuthorID       string
	AuthorUsername string
	AuthorName     string
	Text           string
	ConversationID string
	CreatedAt      time.Time
}
