package llm

import (
	"context"
)

// TaskHint tells a provider what kind of generation is being requested so it
// can pick a model identity and sampling configuration. Advisory only; the
// fallback chain applies regardless.
type TaskHint string

const (
	TaskAnalytical TaskHint = "analytical"
	TaskCreative   TaskHint = "creative"
	TaskGeneral    TaskHint = "general"
)

// Options carries per-call sampling parameters. Zero values mean "use the
// provider default for the task hint".
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Result is one successful generation.
type Result struct {
	Text         string
	ProviderUsed string
	Model        string
}

// defines the interface for text-generation providers
type Provider interface {
	Generate(ctx context.Context, prompt string, hint TaskHint, opts Options) (*Result, error)
	GetProviderName() string
}

// Prober is implemented by providers that can be health-checked before use.
// The gateway probes the secondary provider once at startup and caches the
// outcome for the process lifetime.
type Prober interface {
	Probe(ctx context.Context) error
}

// represents an error from a generation provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes shared across providers. The Ollama chain uses the
// not-found / out-of-memory / timeout distinction to decide which candidates
// are still worth trying.
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
	ErrCodeNotFound     = "model_not_found"
	ErrCodeOutOfMemory  = "out_of_memory"
	ErrCodeEmptyOutput  = "empty_output"
)
