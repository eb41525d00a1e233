// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package openai implements the language model port with the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

// Config holds the configuration for the chat completion client
type Config struct {
	APIKey string
	// Optional: override base URL for testing or a compatible gateway
	BaseURL string
	// Optional: defaults to constants.DefaultChatModel
	Model string
}

// ChatClient produces chat completions.
type ChatClient struct {
	client *goopenai.Client
	model  string
}

var _ domain.LanguageModel = (*ChatClient)(nil)

// NewChatClient creates a new ChatClient
func NewChatClient(config Config) *ChatClient {
	clientConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = constants.DefaultChatModel
	}

	return &ChatClient{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

// Model returns the model completions are requested from.
func (c *ChatClient) Model() string {
	return c.model
}

// Complete returns the first choice's content, or "" when the model returned no choices.
func (c *ChatClient) Complete(ctx context.Context, messages []models.CompletionMessage) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]goopenai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	metrics.LanguageModelLatency.WithLabelValues(c.model, metrics.StatusLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		slog.ErrorContext(ctx, "chat completion request failed", "model", c.model, logging.ErrKey, err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.WarnContext(ctx, "chat completion returned no choices", "model", c.model)
		return "", nil
	}

	slog.DebugContext(ctx, "chat completion received",
		"model", c.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}
