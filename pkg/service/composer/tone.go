package composer

import (
	"regexp"
	"strings"
)

// toneCheck is one category of rejected phrasing
type toneCheck struct {
	category string
	reason   string
	patterns []*regexp.Regexp
}

// ToneValidator rejects generated text that sounds preachy, corporate, or
// otherwise unlike a person. Rejection reasons are fed back to the LLM on
// the next attempt.
type ToneValidator struct {
	checks []toneCheck
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}

// NewToneValidator creates a validator with the built-in phrase categories.
// Extra banned expressions from the app config are appended as their own
// category.
func NewToneValidator(extraBanned ...string) *ToneValidator {
	checks := []toneCheck{
		{
			category: "observational/preachy",
			reason:   "Sounds preachy. State facts directly, don't observe from outside.",
			patterns: compileAll(
				`\b(good|great|nice|glad|happy) to see\b`,
				`\b(good|great|nice) to hear\b`,
				`\bit's (good|great|nice) that\b`,
			),
		},
		{
			category: "meta-commentary",
			reason:   "Don't comment on the content. State it directly.",
			patterns: compileAll(
				`\b(wild|crazy|interesting|fascinating) to think about\b`,
				`\bmakes (you|me) think\b`,
				`\bmakes (sense|you wonder)\b`,
				`\bworth (thinking|noting|mentioning)\b`,
			),
		},
		{
			category: "filler start",
			reason:   "Don't start with filler words. Jump to the point.",
			patterns: compileAll(
				`^so,?\s`,
				`^well,?\s`,
				`^look,?\s`,
				`^okay,?\s`,
			),
		},
		{
			category: "filler ending",
			reason:   "Don't end with filler words. End with the fact or short reaction.",
			patterns: compileAll(
				`,?\s*(honestly|frankly|really|literally)[.!]$`,
				`,?\s*finally[.!]$`,
				`,?\s*to be honest[.!]$`,
				`,?\s*if (you ask me|i'm being honest)[.!]$`,
			),
		},
		{
			category: "formal question",
			reason:   "No formal questions. Make statements or rhetorical observations.",
			patterns: compileAll(
				`\b(how|what) (will|does|can) (this|that) (impact|mean|affect)\b`,
				`\b(what|how) (does|will) this mean for\b`,
				`\bare .+ (obsolete|dead|finished)\?`,
			),
		},
		{
			category: "hedging/uncertain",
			reason:   "Sounds uncertain. State facts confidently.",
			patterns: compileAll(
				`\b(starting|beginning) to\b`,
				`\b(seems|appears) (like|to be)\b`,
				`\b(might|could|may) be (a|the)\b`,
				`\b(feels|sounds) like\b`,
			),
		},
		{
			category: "forced casual",
			reason:   "Don't force casual slang. Be naturally conversational.",
			patterns: compileAll(
				`\bgotta\s`,
				`\bwanna\s`,
				`\bgonna\s`,
				`\bkinda\s`,
				`\bsorta\s`,
			),
		},
		{
			category: "awkward phrasing",
			reason:   "Awkward phrasing. Use direct, natural language.",
			patterns: compileAll(
				`\bpopping up\b`,
				`\bin the wild\b`,
				`\bout there\b`,
				`\bthese days\b`,
			),
		},
		{
			category: "marketing/hype",
			reason:   "No marketing speak or overhype. State facts plainly.",
			patterns: compileAll(
				`\b(revolutionary|groundbreaking|game-?changer)\b`,
				`\b(unleash|unlock|transform)\b`,
				`\b(amazing|incredible|unbelievable)\b`,
				`\bthe future of\b`,
			),
		},
		{
			category: "corporate speak",
			reason:   "No corporate language. Sound like a person, not a company.",
			patterns: compileAll(
				`\b(excited|pleased|happy) to (announce|share)\b`,
				`\bcheck (out|this out)\b`,
				`\bread more\b`,
				`\blearn more\b`,
				`\bin an effort to\b`,
				`\blooking forward to\b`,
			),
		},
	}

	if len(extraBanned) > 0 {
		checks = append(checks, toneCheck{
			category: "banned phrase",
			reason:   "Contains a banned phrase.",
			patterns: compileAll(extraBanned...),
		})
	}

	return &ToneValidator{checks: checks}
}

// Validate returns ok=false with a feedback reason when the text matches a
// rejected category
func (v *ToneValidator) Validate(content string) (bool, string) {
	// Structured-output labels leaking into the text
	if strings.HasPrefix(content, "Style") || strings.Contains(content, "**Style") {
		return false, "Style label leaked into content. Write the post directly."
	}

	lower := strings.ToLower(content)
	for _, check := range v.checks {
		for _, pattern := range check.patterns {
			if matched := pattern.FindString(lower); matched != "" {
				return false, check.reason + " (matched: '" + matched + "')"
			}
		}
	}

	return true, ""
}
