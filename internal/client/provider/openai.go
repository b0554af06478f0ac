package provider

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chatvault/internal/common"
	"github.com/sashabaranov/go-openai"
)

const defaultMaxTokens = 4096

// OpenAISender speaks the OpenAI chat-completions wire format. With a base
// URL override it also serves Perplexity, which is wire-compatible.
type OpenAISender struct {
	client *openai.Client
}

// NewOpenAISender builds a sender for api.openai.com or, when baseURL is
// non-empty, for any OpenAI-compatible endpoint.
func NewOpenAISender(apiKey, baseURL string) (*OpenAISender, error) {
	if apiKey == "" {
		return nil, common.ErrorMissingAPIKey
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISender{client: openai.NewClientWithConfig(cfg)}, nil
}

func (s *OpenAISender) Send(ctx context.Context, req Request) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History))
	for _, m := range req.History {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model.ID,
		Messages:    msgs,
		MaxTokens:   defaultMaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", req.Model.Provider)
	}
	return resp.Choices[0].Message.Content, nil
}
