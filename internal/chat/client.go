// Package chat sends document content extracted by Document Intelligence to
// an OpenAI-compatible chat-completions endpoint for summarization and Q&A.
package chat

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps the chat-completions API.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// Config holds chat client configuration. Endpoint is the deployment's base
// URL; a trailing /chat/completions segment is tolerated and stripped.
type Config struct {
	Endpoint    string
	Key         string
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewClient creates a chat client for an Azure AI Foundry deployment.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("chat endpoint is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("chat API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "Phi-4-multimodal-instruct"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}

	base := strings.TrimRight(cfg.Endpoint, "/")
	base = strings.TrimSuffix(base, "/chat/completions")

	apiCfg := openai.DefaultConfig(cfg.Key)
	apiCfg.BaseURL = base

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Summarize produces a summary of the extracted document content.
func (c *Client) Summarize(ctx context.Context, extracted *ExtractedContent) (string, error) {
	return c.complete(ctx, summarizePrompt(extracted))
}

// Answer responds to a question about the extracted document content.
func (c *Client) Answer(ctx context.Context, extracted *ExtractedContent, question string) (string, error) {
	return c.complete(ctx, questionPrompt(extracted, question))
}

func (c *Client) complete(ctx context.Context, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
