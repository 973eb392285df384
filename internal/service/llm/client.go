package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"parley/internal/config"
	"parley/internal/domain"
	"parley/internal/domain/services"
)

// Client is the LLM invocation collaborator: one completion per call, no
// streaming. Backed by langchaingo's OpenAI-compatible client so any
// provider in the registry works.
type Client struct {
	model  llms.Model
	logger *slog.Logger
}

// NewClient builds a completer for the configured provider. The model and
// base URL fall back to the provider defaults from the registry.
func NewClient(cfg *config.Config, registry *Registry, logger *slog.Logger) (services.Completer, error) {
	provider, err := registry.Provider(cfg.LLMProvider)
	if err != nil {
		return nil, err
	}

	model := cfg.LLMModel
	if model == "" {
		model = provider.DefaultModel
	}
	baseURL := cfg.LLMBaseURL
	if baseURL == "" {
		baseURL = provider.BaseURL
	}

	llm, err := openai.New(
		openai.WithToken(cfg.LLMAPIKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}

	logger.Info("LLM client initialized",
		"provider", provider.Name,
		"model", model,
	)

	return &Client{
		model:  llm,
		logger: logger,
	}, nil
}

// Complete sends the ordered message history and returns the first
// choice's text. A response without usable content collapses to "" so the
// caller can still record the assistant turn; only transport-level
// failures surface as errors.
func (c *Client) Complete(ctx context.Context, messages []services.PromptMessage) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(roleToMessageType(msg.Role), msg.Content))
	}

	resp, err := c.model.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		c.logger.Warn("completion response had no choices")
		return "", nil
	}

	return resp.Choices[0].Content, nil
}

func roleToMessageType(role string) schema.ChatMessageType {
	switch role {
	case services.PromptRoleSystem:
		return schema.ChatMessageTypeSystem
	case services.PromptRoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

// unavailable is the completer used when no LLM credentials are
// configured: conversation management keeps working, completions fail.
type unavailable struct{}

// NewUnavailable returns a Completer whose calls always fail upstream.
func NewUnavailable() services.Completer {
	return unavailable{}
}

func (unavailable) Complete(context.Context, []services.PromptMessage) (string, error) {
	return "", fmt.Errorf("%w: no LLM credentials configured", domain.ErrUpstream)
}
