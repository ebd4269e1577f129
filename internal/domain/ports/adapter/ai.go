package adapter

import "context"

// ModelInfo describes a model.
type ModelInfo struct {
	Name        string
	Provider    string
	Description string
	MaxTokens   int
}

// CompletionAdapter is the port for one-shot LLM completion. The prompt is a
// single flattened string; the call is stateless across invocations.
type CompletionAdapter interface {
	ListModels(ctx context.Context) ([]string, error)
	GetModelInfo(model string) (ModelInfo, error)

	// Complete returns only the assistant text for the given prompt.
	Complete(ctx context.Context, model, prompt string) (string, error)
}
