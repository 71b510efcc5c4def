package gemini

import (
	"context"

	"google.golang.org/genai"

	"placementprep/interview/internal/llm"
)

// Client is the hosted Gemini provider, used as the gateway's primary when an
// API key is configured.
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// Generate runs one text generation against the configured Gemini model.
func (c *Client) Generate(ctx context.Context, prompt string, hint llm.TaskHint, opts llm.Options) (*llm.Result, error) {
	result, err := c.client.Models.GenerateContent(
		ctx,
		c.config.Model,
		genai.Text(prompt),
		samplingConfig(hint, opts),
	)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeServiceDown,
			Message:  "Failed to generate content",
			Err:      err,
		}
	}

	if result == nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeEmptyOutput,
			Message:  "No response generated",
		}
	}

	text, err := result.Text()
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeEmptyOutput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if text == "" {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeEmptyOutput,
			Message:  "Empty response generated",
		}
	}

	return &llm.Result{
		Text:         text,
		ProviderUsed: "gemini",
		Model:        c.config.Model,
	}, nil
}

// samplingConfig maps the task hint to a generation config, letting explicit
// options override the hint's defaults. Analytical tasks run near-greedy so
// scoring output stays stable across calls.
func samplingConfig(hint llm.TaskHint, opts llm.Options) *genai.GenerateContentConfig {
	temperature := float32(0.7)
	topP := float32(0.95)
	switch hint {
	case llm.TaskAnalytical:
		temperature = 0.1
		topP = 0.8
	case llm.TaskCreative:
		temperature = 0.9
	}
	if opts.Temperature > 0 {
		temperature = float32(opts.Temperature)
	}
	if opts.TopP > 0 {
		topP = float32(opts.TopP)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
		TopP:        genai.Ptr(topP),
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = genai.Ptr(int32(opts.MaxTokens))
	}
	return cfg
}

func (c *Client) GetProviderName() string {
	return "gemini"
}
