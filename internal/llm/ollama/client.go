package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"placementprep/interview/internal/llm"
)

// Client is the self-hosted Ollama provider. One generation call walks the
// candidate chain lightest-first; each candidate gets its own timeout and its
// failure is classified so the chain knows whether heavier models are still
// worth trying.
type Client struct {
	config *Config
	client *http.Client
}

func NewClient(config *Config) (*Client, error) {
	if len(config.Chain) == 0 {
		return nil, errors.New("ollama candidate chain is empty")
	}
	return &Client{
		config: config,
		// Per-candidate deadlines come from the chain; the shared client
		// only bounds dialing and header reads.
		client: &http.Client{},
	}, nil
}

// Probe checks that the Ollama endpoint is reachable. The gateway calls this
// once at startup and caches the result.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", c.config.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama list models returned status %d", resp.StatusCode)
	}
	return nil
}

// Generate walks the fallback chain. The task hint moves its preferred model
// to the front; an out-of-memory failure prunes every remaining candidate at
// least as heavy as the one that failed.
func (c *Client) Generate(ctx context.Context, prompt string, hint llm.TaskHint, opts llm.Options) (*llm.Result, error) {
	candidates := c.orderedCandidates(hint)

	var attempts []string
	skipAtOrAbove := 0.0
	pruning := false

	for _, cand := range candidates {
		if pruning && cand.Weight >= skipAtOrAbove {
			attempts = append(attempts, cand.Model+" (skipped after memory failure)")
			continue
		}

		text, err := c.generateOnce(ctx, cand, prompt, hint, opts)
		if err == nil {
			return &llm.Result{
				Text:         text,
				ProviderUsed: "ollama",
				Model:        cand.Model,
			}, nil
		}

		code := classify(err)
		attempts = append(attempts, fmt.Sprintf("%s (%s)", cand.Model, code))
		if code == llm.ErrCodeOutOfMemory {
			pruning = true
			skipAtOrAbove = cand.Weight
		}
		// Parent context gone: no point trying further candidates.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &llm.ProviderError{
		Provider: "ollama",
		Code:     llm.ErrCodeServiceDown,
		Message:  "all candidate models failed: " + strings.Join(attempts, ", "),
	}
}

func (c *Client) orderedCandidates(hint llm.TaskHint) []Candidate {
	preferred := c.config.TaskModels[string(hint)]
	if preferred == "" {
		return c.config.Chain
	}
	ordered := make([]Candidate, 0, len(c.config.Chain))
	for _, cand := range c.config.Chain {
		if cand.Model == preferred {
			ordered = append([]Candidate{cand}, ordered...)
		} else {
			ordered = append(ordered, cand)
		}
	}
	return ordered
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (c *Client) generateOnce(ctx context.Context, cand Candidate, prompt string, hint llm.TaskHint, opts llm.Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cand.Timeout)
	defer cancel()

	temperature := 0.7
	if hint == llm.TaskAnalytical {
		temperature = 0.1
	}
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	body, err := json.Marshal(generateRequest{
		Model:  cand.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: temperature,
			TopP:        opts.TopP,
			NumPredict:  opts.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
			return "", &llm.ProviderError{Provider: "ollama", Code: llm.ErrCodeTimeout, Message: cand.Model + " timed out", Err: err}
		}
		return "", &llm.ProviderError{Provider: "ollama", Code: llm.ErrCodeServiceDown, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.ProviderError{Provider: "ollama", Code: llm.ErrCodeServiceDown, Message: "read response", Err: err}
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &llm.ProviderError{Provider: "ollama", Code: llm.ErrCodeServiceDown, Message: "decode response", Err: err}
	}

	if resp.StatusCode != http.StatusOK || out.Error != "" {
		return "", classifyServerError(cand.Model, resp.StatusCode, out.Error)
	}
	if out.Response == "" {
		return "", &llm.ProviderError{Provider: "ollama", Code: llm.ErrCodeEmptyOutput, Message: cand.Model + " returned empty output"}
	}
	return out.Response, nil
}

// classifyServerError maps an Ollama error body onto the shared error codes.
// Ollama reports missing models and memory exhaustion as plain-text messages,
// so detection is substring-based.
func classifyServerError(model string, status int, message string) error {
	lower := strings.ToLower(message)
	code := llm.ErrCodeServiceDown
	switch {
	case status == http.StatusNotFound || strings.Contains(lower, "not found"):
		code = llm.ErrCodeNotFound
	case strings.Contains(lower, "memory") || strings.Contains(lower, "oom"):
		code = llm.ErrCodeOutOfMemory
	}
	return &llm.ProviderError{
		Provider: "ollama",
		Code:     code,
		Message:  fmt.Sprintf("%s: status %d: %s", model, status, message),
	}
}

func classify(err error) string {
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return llm.ErrCodeServiceDown
}

func (c *Client) GetProviderName() string {
	return "ollama"
}
