package ollama

import (
	"os"
	"time"
)

// Candidate is one model in the fallback chain. Weight is the approximate
// parameter count in billions; it orders the chain and decides which
// candidates to prune after an out-of-memory failure.
type Candidate struct {
	Model   string
	Weight  float64
	Timeout time.Duration
}

// Config for the self-hosted Ollama provider.
type Config struct {
	URL        string
	Chain      []Candidate
	TaskModels map[string]string // task hint -> preferred model in the chain
}

// Default chain, lightest first. Light models get single-digit timeouts so a
// stuck candidate cannot stall the whole request; only the last, heaviest
// fallback is allowed a longer window.
func defaultChain() []Candidate {
	return []Candidate{
		{Model: "llama3.2:1b", Weight: 1, Timeout: 4 * time.Second},
		{Model: "llama3.2:3b", Weight: 3, Timeout: 6 * time.Second},
		{Model: "mistral:7b", Weight: 7, Timeout: 9 * time.Second},
		{Model: "llama3.1:8b", Weight: 8, Timeout: 30 * time.Second},
	}
}

func NewConfig() (*Config, error) {
	url := os.Getenv("OLLAMA_URL")
	if url == "" {
		url = "http://localhost:11434"
	}

	return &Config{
		URL:   url,
		Chain: defaultChain(),
		TaskModels: map[string]string{
			"analytical": "mistral:7b",
			"creative":   "llama3.1:8b",
			"general":    "llama3.2:3b",
		},
	}, nil
}
