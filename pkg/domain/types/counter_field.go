package types

import "fmt"

// CounterField names one daily counter. The counter store only accepts
// fields from this set, so a typo can never create a stray document field.
type CounterField string

const (
	CounterPostsCreated    CounterField = "posts_created"
	CounterRepliesCreated  CounterField = "replies_created"
	CounterMentionsChecked CounterField = "mentions_checked"
	CounterVideosGenerated CounterField = "videos_generated"
	CounterImagesGenerated CounterField = "images_generated"
)

// AllCounterFields returns all valid counter fields
func AllCounterFields() []CounterField {
	return []CounterField{
		CounterPostsCreated,
		CounterRepliesCreated,
		CounterMentionsChecked,
		CounterVideosGenerated,
		CounterImagesGenerated,
	}
}

// IsValid checks if the counter field is valid
func (f CounterField) IsValid() bool {
	switch f {
	case CounterPostsCreated, CounterRepliesCreated, CounterMentionsChecked,
		CounterVideosGenerated, CounterImagesGenerated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the counter field
func (f CounterField) String() string {
	return string(f)
}

// ParseCounterField parses a string into a CounterField
func ParseCounterField(s string) (CounterField, error) {
	field := CounterField(s)
	if !field.IsValid() {
		return "", fmt.Errorf("invalid counter field: %s", s)
	}
	return field, nil
}
