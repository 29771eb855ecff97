package model

// MaxPostLength is the platform's per-post character limit
const MaxPostLength = 280

const (
	ellipsis        = "..."
	suffixSeparator = "\n\n"
)

// TruncatePost clips text to the platform limit with a trailing ellipsis.
// Lengths are measured in runes so a multi-byte character is never split.
func TruncatePost(text string) string {
	return truncateTo(text, MaxPostLength)
}

func truncateTo(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := limit - len(ellipsis)
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + ellipsis
}

// TruncateWithSuffix appends a reserved suffix (typically a source URL) to
// text and, when the result exceeds the platform limit, truncates the
// PREFIX rather than the suffix:
//
//	prefix(text, limit - len(suffix) - len(ellipsis) - len(separator)) + "..." + "\n\n" + suffix
//
// The output never exceeds MaxPostLength. A suffix too long to leave any
// room for content degrades to plain prefix truncation.
func TruncateWithSuffix(text, suffix string) string {
	if suffix == "" {
		return TruncatePost(text)
	}

	full := text + suffixSeparator + suffix
	if len([]rune(full)) <= MaxPostLength {
		return full
	}

	budget := MaxPostLength - len([]rune(suffix)) - len(ellipsis) - len(suffixSeparator)
	if budget <= 0 {
		return TruncatePost(text)
	}

	runes := []rune(text)
	if len(runes) > budget {
		runes = runes[:budget]
	}
	return string(runes) + ellipsis + suffixSeparator + suffix
}
