package types

import "fmt"

// ContentType is the shape of content the agent produces for a post.
// It is a closed set: free-form type strings from external sources are
// normalized at the decision engine boundary.
type ContentType string

const (
	ContentTypeVideo   ContentType = "video"
	ContentTypeImage   ContentType = "image"
	ContentTypeMeme    ContentType = "meme"
	ContentTypeText    ContentType = "text"
	ContentTypeThought ContentType = "thought"
)

// AllContentTypes returns all valid content types
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeVideo,
		ContentTypeImage,
		ContentTypeMeme,
		ContentTypeText,
		ContentTypeThought,
	}
}

// IsValid checks if the content type is valid
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeVideo, ContentTypeImage, ContentTypeMeme, ContentTypeText, ContentTypeThought:
		return true
	default:
		return false
	}
}

// Normalize maps unknown or empty content types to ContentTypeText
func (c ContentType) Normalize() ContentType {
	if !c.IsValid() {
		return ContentTypeText
	}
	return c
}

// NeedsMedia reports whether this content type requires a media file
func (c ContentType) NeedsMedia() bool {
	switch c {
	case ContentTypeVideo, ContentTypeImage, ContentTypeMeme:
		return true
	default:
		return false
	}
}

// String returns the string representation of the content type
func (c ContentType) String() string {
	return string(c)
}

// ParseContentType parses a string into a ContentType
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(s)
	if !ct.IsValid() {
		return "", fmt.Errorf("invalid content type: %s", s)
	}
	return ct, nil
}
