package composer

import (
	"context"

	"github.com/secmon-lab/phantom/pkg/domain/types"
)

// Service generates post and reply text with the LLM, validates its tone,
// and produces embeddings for the memory index.
type Service interface {
	// ComposePost generates post text for the topic and content type.
	// Media content types also get a visual generation prompt.
	ComposePost(ctx context.Context, input PostInput) (*PostResult, error)

	// ComposeReply generates a reply to a mention
	ComposeReply(ctx context.Context, input ReplyInput) (string, error)

	// Embed produces the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PostInput carries everything the LLM needs to write one post
type PostInput struct {
	Topic       string
	ContentType types.ContentType
	SourceURL   string

	// RecentPosts are the bot's own latest posts, given to the LLM so it
	// does not repeat itself
	RecentPosts []string
}

// PostResult is the generated post
type PostResult struct {
	Text        string
	MediaPrompt string
}

// ReplyInput carries a mention to answer
type ReplyInput struct {
	Author string
	Text   string

	// SimilarPosts are past interactions close to the mention in the
	// memory index, given as conversation context
	SimilarPosts []string
}

// Persona describes the voice the LLM writes in, loaded from the app
// config file
type Persona struct {
	Name      string   `toml:"name"`
	Bio       string   `toml:"bio"`
	Voice     string   `toml:"voice"`
	Interests []string `toml:"interests"`
}
