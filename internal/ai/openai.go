package ai

import (
	"context"

	"oneprompt/internal/ai/prompts"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Ensure OpenAIBackend implements Backend at compile time.
var _ Backend = (*OpenAIBackend)(nil)

// OpenAIConfig configures an OpenAIBackend.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // optional, for OpenAI-compatible gateways
	Model       string
	MaxTokens   int
	Temperature float32
}

// OpenAIBackend generates sites with the OpenAI chat completions API.
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIBackend{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Complete asks the model for a site as a JSON object of html, css, js and
// text. Earlier conversation turns are replayed before the new request.
func (b *OpenAIBackend) Complete(ctx context.Context, req Request) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompts.SiteSystemPrompt},
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		if m.Content == "" || m.Role == "system" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompts.BuildSitePrompt(req.UserPrompt()),
	})

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		zap.S().Warnf("OpenAI usage for empty response: %+v", resp.Usage)
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
