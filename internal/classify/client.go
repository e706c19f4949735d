package classify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Client classifies opportunity descriptions with the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed classifier.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Classify runs the thesis-alignment prompt against a single opportunity
// description. The call is made exactly once; network, quota and parse
// failures all surface as errors and the caller skips the inquiry.
func (c *Client) Classify(ctx context.Context, description string) (*Result, error) {
	prompt := BuildPrompt(description)
	log.Debug().Str("model", c.model).Int("prompt_len", len(prompt)).Msg("Requesting classification")

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	result, err := ParseResult(resp.Text())
	if err != nil {
		return nil, err
	}

	log.Debug().Int("alignment_score", result.Score()).Msg("Classification successful")
	return result, nil
}
