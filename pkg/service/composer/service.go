package composer

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/phantom/pkg/domain/model"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
)

const maxComposeAttempts = 3

type service struct {
	llmClient gollem.LLMClient
	persona   Persona
	tone      *ToneValidator
}

// Option is a functional option for service configuration
type Option func(*service)

// WithToneValidator replaces the default tone validator
func WithToneValidator(tone *ToneValidator) Option {
	return func(s *service) {
		s.tone = tone
	}
}

// New creates a composer backed by the given LLM client
func New(llmClient gollem.LLMClient, persona Persona, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	s := &service{
		llmClient: llmClient,
		persona:   persona,
		tone:      NewToneValidator(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

type postResponse struct {
	Text        string `json:"text"`
	MediaPrompt string `json:"media_prompt"`
}

func buildPostResponseSchema(needsMedia bool) *gollem.Parameter {
	properties := map[string]*gollem.Parameter{
		"text": {
			Type:        gollem.TypeString,
			Description: "The post text, under 280 characters",
			Required:    true,
		},
	}

	if needsMedia {
		properties["media_prompt"] = &gollem.Parameter{
			Type:        gollem.TypeString,
			Description: "Scene description for the media generator",
			Required:    true,
		}
	}

	return &gollem.Parameter{
		Title:      "PostResponse",
		Type:       gollem.TypeObject,
		Properties: properties,
	}
}

func (s *service) ComposePost(ctx context.Context, input PostInput) (*PostResult, error) {
	logger := logging.From(ctx)

	needsMedia := input.ContentType.NeedsMedia()
	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildPostResponseSchema(needsMedia)),
		gollem.WithSessionSystemPrompt(buildPostSystemPrompt(s.persona, input.ContentType)),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	var feedback string
	for attempt := 1; attempt <= maxComposeAttempts; attempt++ {
		resp, err := session.GenerateContent(ctx, gollem.Text(buildPostUserPrompt(input, feedback)))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate post")
		}
		if len(resp.Texts) == 0 {
			return nil, goerr.New("LLM returned no content")
		}

		var parsed postResponse
		if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
			return nil, goerr.Wrap(err, "failed to parse post response", goerr.V("response", resp.Texts[0]))
		}

		text := strings.TrimSpace(parsed.Text)
		if text == "" {
			feedback = "The post text was empty."
			continue
		}

		if ok, reason := s.tone.Validate(text); !ok {
			logger.Warn("post rejected by tone validator",
				slog.Int("attempt", attempt), slog.String("reason", reason))
			feedback = reason
			continue
		}

		result := &PostResult{
			Text:        model.TruncatePost(text),
			MediaPrompt: strings.TrimSpace(parsed.MediaPrompt),
		}
		if needsMedia && result.MediaPrompt == "" {
			feedback = "media_prompt was missing."
			continue
		}

		return result, nil
	}

	return nil, goerr.New("post failed tone validation",
		goerr.V("topic", input.Topic), goerr.V("attempts", maxComposeAttempts),
		goerr.V("lastReason", feedback))
}

type replyResponse struct {
	Text string `json:"text"`
}

func buildReplyResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title: "ReplyResponse",
		Type:  gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"text": {
				Type:        gollem.TypeString,
				Description: "The reply text, under 280 characters",
				Required:    true,
			},
		},
	}
}

func (s *service) ComposeReply(ctx context.Context, input ReplyInput) (string, error) {
	logger := logging.From(ctx)

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildReplyResponseSchema()),
		gollem.WithSessionSystemPrompt(buildReplySystemPrompt(s.persona)),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	var feedback string
	for attempt := 1; attempt <= maxComposeAttempts; attempt++ {
		resp, err := session.GenerateContent(ctx, gollem.Text(buildReplyUserPrompt(input, feedback)))
		if err != nil {
			return "", goerr.Wrap(err, "failed to generate reply")
		}
		if len(resp.Texts) == 0 {
			return "", goerr.New("LLM returned no content")
		}

		var parsed replyResponse
		if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
			return "", goerr.Wrap(err, "failed to parse reply response", goerr.V("response", resp.Texts[0]))
		}

		text := strings.TrimSpace(parsed.Text)
		if text == "" {
			feedback = "The reply text was empty."
			continue
		}

		if ok, reason := s.tone.Validate(text); !ok {
			logger.Warn("reply rejected by tone validator",
				slog.Int("attempt", attempt), slog.String("reason", reason))
			feedback = reason
			continue
		}

		return model.TruncatePost(text), nil
	}

	return "", goerr.New("reply failed tone validation",
		goerr.V("author", input.Author), goerr.V("attempts", maxComposeAttempts),
		goerr.V("lastReason", feedback))
}

func (s *service) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}
