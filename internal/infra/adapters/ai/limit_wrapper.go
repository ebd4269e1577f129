package ai

import (
	"context"
	"errors"

	"cortex-labs/internal/domain/ports/adapter"
)

var errNoProvider = errors.New("no completion provider configured")

// Compile-time check
var _ adapter.CompletionAdapter = (*limitedAI)(nil)

type limitedAI struct {
	inner adapter.CompletionAdapter
	sem   chan struct{}
}

// NewLimited caps the number of in-flight completion calls.
func NewLimited(inner adapter.CompletionAdapter, maxConcurrent int) adapter.CompletionAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}

func (l *limitedAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return l.inner.GetModelInfo(model)
}

func (l *limitedAI) Complete(ctx context.Context, model, prompt string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Complete(ctx, model, prompt)
}
