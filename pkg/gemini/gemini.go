// Package gemini wraps the Google GenAI SDK behind the agent's Generator
// contract: one prompt string in, one completion string out.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

type Config struct {
	APIKey string `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model  string `envconfig:"MODEL" split_words:"true" default:"gemini-2.0-flash"`
}

type Client struct {
	client *genai.Client
	model  string
}

var _ contractx.Generator = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string, opts contractx.GenerateOptions) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	temperature := opts.Temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if opts.MaxOutputTokens > 0 {
		genCfg.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	return result.Text(), nil
}

func (c *Client) ModelName() string { return c.model }
