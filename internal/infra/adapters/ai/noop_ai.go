package ai

import (
	"context"
	"errors"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAdapter)(nil)

// NoopAdapter answers every prompt with a canned line. Used in dev mode and
// in tests where no real provider is wired.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (a *NoopAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-model"}, nil
}

func (a *NoopAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: "noop-model", Provider: "noop", Description: "canned responses for local runs"}, nil
}

func (a *NoopAdapter) Complete(ctx context.Context, model, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return "This is a canned response.", nil
}

var _ adapter.CompletionAdapter = (*FaultyAdapter)(nil)

// FaultyAdapter fails every call on purpose. It backs the "simulate an
// error" toggle that demonstrates the error-handling path.
type FaultyAdapter struct{}

func NewFaultyAdapter() *FaultyAdapter { return &FaultyAdapter{} }

func (a *FaultyAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"faulty-model"}, nil
}

func (a *FaultyAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: "faulty-model", Provider: "noop", Description: "always fails"}, nil
}

func (a *FaultyAdapter) Complete(ctx context.Context, model, prompt string) (string, error) {
	return "", &domain.RemoteCallError{
		Provider:  "noop",
		Operation: "complete",
		Hint:      "this failure is injected on purpose",
		Cause:     errors.New("simulated remote failure"),
	}
}
