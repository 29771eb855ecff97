package composer

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/phantom/pkg/domain/types"
)

func buildPersonaPrompt(persona Persona) string {
	var sb strings.Builder

	name := persona.Name
	if name == "" {
		name = "an independent tech commentator"
	}

	fmt.Fprintf(&sb, "You write social media posts as %s.\n", name)
	if persona.Bio != "" {
		fmt.Fprintf(&sb, "Background: %s\n", persona.Bio)
	}
	if persona.Voice != "" {
		fmt.Fprintf(&sb, "Voice: %s\n", persona.Voice)
	}
	if len(persona.Interests) > 0 {
		fmt.Fprintf(&sb, "Interests: %s\n", strings.Join(persona.Interests, ", "))
	}

	sb.WriteString("\n## Rules:\n\n")
	sb.WriteString("1. Write like a real person on the timeline, not a brand account.\n")
	sb.WriteString("2. One concrete point per post. No hashtag walls, no emoji spam.\n")
	sb.WriteString("3. Stay under 280 characters.\n")
	sb.WriteString("4. Never mention being an AI or a bot.\n")

	return sb.String()
}

func buildPostSystemPrompt(persona Persona, contentType types.ContentType) string {
	var sb strings.Builder
	sb.WriteString(buildPersonaPrompt(persona))

	if contentType.NeedsMedia() {
		sb.WriteString("\nThe post will carry generated visual media. ")
		sb.WriteString("Also produce media_prompt: a vivid scene description for the media generator. ")
		sb.WriteString("The post text must stand on its own without the media.\n")
	}

	switch contentType {
	case types.ContentTypeThought:
		sb.WriteString("\nThis is a late-night reflection: a short standalone thought, not news commentary.\n")
	case types.ContentTypeMeme:
		sb.WriteString("\nThis is a meme post: dry humor, no explanation of the joke.\n")
	}

	return sb.String()
}

func buildPostUserPrompt(input PostInput, feedback string) string {
	var sb strings.Builder

	if input.Topic != "" {
		fmt.Fprintf(&sb, "Write one post about: %s\n", input.Topic)
	} else {
		sb.WriteString("Write one post on whatever fits the persona right now.\n")
	}
	if input.SourceURL != "" {
		fmt.Fprintf(&sb, "Source: %s\n", input.SourceURL)
	}

	if len(input.RecentPosts) > 0 {
		sb.WriteString("\n## Your recent posts (do not repeat these angles):\n\n")
		for _, p := range input.RecentPosts {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
	}

	if feedback != "" {
		fmt.Fprintf(&sb, "\nYour previous attempt was rejected: %s\nWrite a fresh version that avoids this.\n", feedback)
	}

	return sb.String()
}

func buildReplySystemPrompt(persona Persona) string {
	var sb strings.Builder
	sb.WriteString(buildPersonaPrompt(persona))
	sb.WriteString("\nYou are replying to someone who mentioned you. ")
	sb.WriteString("Answer what they actually said. Keep it short, direct, and in character.\n")
	return sb.String()
}

func buildReplyUserPrompt(input ReplyInput, feedback string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "@%s wrote:\n%s\n", input.Author, input.Text)

	if len(input.SimilarPosts) > 0 {
		sb.WriteString("\n## Related things you said before:\n\n")
		for _, p := range input.SimilarPosts {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
	}

	sb.WriteString("\nWrite your reply.\n")

	if feedback != "" {
		fmt.Fprintf(&sb, "\nYour previous attempt was rejected: %s\nWrite a fresh version that avoids this.\n", feedback)
	}

	return sb.String()
}
