package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"placementprep/interview/internal/metrics"
)

// Gateway fronts the two interchangeable backends: a hosted primary (present
// only when configured) and a self-hosted secondary. A call tries the primary
// first, then falls through to the secondary unless its startup probe already
// marked it unavailable.
//
// The gateway itself is stateless across calls; the probe outcome is the only
// cached value and is written exactly once, at construction.
type Gateway struct {
	primary      Provider
	secondary    Provider
	secondaryUp  bool
	secondaryErr error
	logger       *zap.Logger
}

// ExhaustedError reports that every candidate in both providers failed. The
// message names everything attempted so operators can see which backend broke;
// clients get a generic message from the HTTP layer, never this text.
type ExhaustedError struct {
	PrimaryErr   error
	SecondaryErr error
}

func (e *ExhaustedError) Error() string {
	switch {
	case e.PrimaryErr != nil && e.SecondaryErr != nil:
		return fmt.Sprintf("all generation providers exhausted: primary: %v; secondary: %v", e.PrimaryErr, e.SecondaryErr)
	case e.SecondaryErr != nil:
		return fmt.Sprintf("all generation providers exhausted: secondary: %v", e.SecondaryErr)
	default:
		return fmt.Sprintf("all generation providers exhausted: primary: %v", e.PrimaryErr)
	}
}

// NewGateway wires the providers together. primary may be nil when no API
// credential is configured. The secondary is probed here, once; a failed
// probe is cached for the process lifetime per the crash-fast contract.
func NewGateway(ctx context.Context, primary, secondary Provider, logger *zap.Logger) *Gateway {
	g := &Gateway{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}

	if secondary != nil {
		g.secondaryUp = true
		if prober, ok := secondary.(Prober); ok {
			if err := prober.Probe(ctx); err != nil {
				g.secondaryUp = false
				g.secondaryErr = err
				logger.Warn("secondary provider unavailable, fallback disabled",
					zap.String("provider", secondary.GetProviderName()),
					zap.Error(err))
			}
		}
	}

	return g
}

// HasFallback reports whether the secondary passed its startup probe.
func (g *Gateway) HasFallback() bool {
	return g.secondary != nil && g.secondaryUp
}

// Generate tries the primary, then the secondary. It returns an
// ExhaustedError when nothing is left to try; callers must treat every
// generation as fallible and must not assume internal retries beyond the
// documented fallback.
func (g *Gateway) Generate(ctx context.Context, prompt string, hint TaskHint, opts Options) (*Result, error) {
	var primaryErr error

	if g.primary != nil {
		result, err := g.primary.Generate(ctx, prompt, hint, opts)
		if err == nil {
			metrics.GenerationOutcome(result.ProviderUsed, result.Model, "ok")
			return result, nil
		}
		primaryErr = err
		metrics.GenerationOutcome(g.primary.GetProviderName(), "", "error")
		g.logger.Warn("primary provider failed, falling back",
			zap.String("provider", g.primary.GetProviderName()),
			zap.String("task", string(hint)),
			zap.Error(err))
	}

	if g.secondary == nil || !g.secondaryUp {
		metrics.GenerationExhausted()
		return nil, &ExhaustedError{PrimaryErr: primaryErr, SecondaryErr: g.secondaryErr}
	}

	result, err := g.secondary.Generate(ctx, prompt, hint, opts)
	if err != nil {
		metrics.GenerationOutcome(g.secondary.GetProviderName(), "", "error")
		metrics.GenerationExhausted()
		return nil, &ExhaustedError{PrimaryErr: primaryErr, SecondaryErr: err}
	}

	metrics.GenerationOutcome(result.ProviderUsed, result.Model, "ok")
	return result, nil
}
