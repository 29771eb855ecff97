package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/secmon-lab/phantom/pkg/domain/types"
)

// EmbeddingDimension is the vector size requested from the embedding model
// and declared in the Firestore vector index.
const EmbeddingDimension = 256

// Interaction is one memory record: content the agent authored or observed
// and decided about. Records are immutable once written except for the
// Responded marker, which may be set once.
type Interaction struct {
	// ID is the identity key: a post ID when one exists, otherwise a
	// derived fingerprint.
	ID     string
	Author string
	// Self marks content this account authored
	Self    bool
	Content string
	Kind    types.InteractionKind
	// Embedding is nil when the embedding subsystem was unavailable at
	// store time. Nil means "no similarity data", never "zero similarity";
	// such records are excluded from similarity search.
	Embedding []float32
	Metadata  map[string]string
	Responded bool
	CreatedAt time.Time
}

// Clone returns a deep copy
func (x *Interaction) Clone() *Interaction {
	copied := *x
	if x.Embedding != nil {
		copied.Embedding = make([]float32, len(x.Embedding))
		copy(copied.Embedding, x.Embedding)
	}
	if x.Metadata != nil {
		copied.Metadata = make(map[string]string, len(x.Metadata))
		for k, v := range x.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}

// ScoredInteraction is a similarity search hit
type ScoredInteraction struct {
	*Interaction
	Similarity float64
}

// ReplyFingerprint derives the dedup key for "have we replied to this
// tweet/author pair". Distinct namespace from MentionFingerprint; the two
// must never be conflated.
func ReplyFingerprint(targetTweetID, targetAuthor string) string {
	sum := sha256.Sum256([]byte(targetTweetID + ":" + targetAuthor))
	return hex.EncodeToString(sum[:])[:24]
}

// MentionFingerprint derives the dedup key for "have we already evaluated
// this mention". Uses the tweet ID when present, otherwise the author plus
// the first 100 characters of the text.
func MentionFingerprint(author, text, tweetID string) string {
	var input string
	if tweetID != "" {
		input = tweetID
	} else {
		runes := []rune(text)
		if len(runes) > 100 {
			runes = runes[:100]
		}
		input = author + ":" + string(runes)
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:16]
}
