package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/common"
)

const anthropicDefaultBaseURL = "https://api.anthropic.com/v1"

// AnthropicSender talks to the Anthropic messages API. System entries in the
// history are folded into the request's system field; Anthropic does not
// accept them inline.
type AnthropicSender struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewAnthropicSender(apiKey, baseURL string) (*AnthropicSender, error) {
	if apiKey == "" {
		return nil, common.ErrorMissingAPIKey
	}
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	return &AnthropicSender{apiKey: apiKey, baseURL: baseURL, client: &http.Client{}}, nil
}

func (s *AnthropicSender) Send(ctx context.Context, req Request) (string, error) {
	body := anthropicRequest{
		Model:       req.Model.ID,
		MaxTokens:   defaultMaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.History {
		if m.Role == models.RoleSystem {
			if body.System != "" {
				body.System += "\n"
			}
			body.System += m.Content
			continue
		}
		body.Messages = append(body.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", s.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil {
			return "", fmt.Errorf("anthropic: %s: %s", decoded.Error.Type, decoded.Error.Message)
		}
		return "", fmt.Errorf("anthropic: unexpected status %d", resp.StatusCode)
	}

	for _, block := range decoded.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: no text content in response")
}
