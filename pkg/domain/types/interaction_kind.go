package types

import "fmt"

// InteractionKind classifies a memory record: content we posted ourselves,
// a reply we sent, or a mention we evaluated and skipped.
type InteractionKind string

const (
	InteractionPosted         InteractionKind = "posted"
	InteractionReply          InteractionKind = "reply"
	InteractionMentionIgnored InteractionKind = "mention_ignored"
)

// AllInteractionKinds returns all valid interaction kinds
func AllInteractionKinds() []InteractionKind {
	return []InteractionKind{
		InteractionPosted,
		InteractionReply,
		InteractionMentionIgnored,
	}
}

// IsValid checks if the interaction kind is valid
func (k InteractionKind) IsValid() bool {
	switch k {
	case InteractionPosted, InteractionReply, InteractionMentionIgnored:
		return true
	default:
		return false
	}
}

// String returns the string representation of the interaction kind
func (k InteractionKind) String() string {
	return string(k)
}

// ParseInteractionKind parses a string into an InteractionKind
func ParseInteractionKind(s string) (InteractionKind, error) {
	kind := InteractionKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid interaction kind: %s", s)
	}
	return kind, nil
}
