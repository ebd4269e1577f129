// Package cortex implements the remote-service ports against the warehouse
// REST surface, using the session handle produced by the resolver.
package cortex

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/infra/metrics"
	"cortex-labs/internal/infra/snowflake"
)

// SessionSource yields the resolved session handle; *snowflake.Resolver
// satisfies it.
type SessionSource interface {
	Resolve(ctx context.Context) (*snowflake.Session, error)
}

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*CompleteAdapter)(nil)

// The hosted model catalog. Values are passed through as literal strings;
// there is no schema negotiation.
var cortexModels = []string{"claude-3-5-sonnet", "mistral-large", "llama3.1-8b"}

// CompleteAdapter issues one-shot completion calls. The whole conversation
// arrives as a single flattened prompt string.
type CompleteAdapter struct {
	source SessionSource
	model  string
}

func NewCompleteAdapter(source SessionSource, defaultModel string) *CompleteAdapter {
	if defaultModel == "" {
		defaultModel = cortexModels[0]
	}
	return &CompleteAdapter{source: source, model: defaultModel}
}

func (c *CompleteAdapter) ListModels(ctx context.Context) ([]string, error) {
	out := make([]string, len(cortexModels))
	copy(out, cortexModels)
	return out, nil
}

func (c *CompleteAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	if model == "" {
		model = c.model
	}
	return adapter.ModelInfo{
		Name:        model,
		Provider:    "cortex",
		Description: "warehouse-hosted completion model",
	}, nil
}

func (c *CompleteAdapter) Complete(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = c.model
	}

	sess, err := c.source.Resolve(ctx)
	if err != nil {
		return "", err
	}

	reqBody := struct {
		Model    string `json:"model"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}{Model: model}
	reqBody.Messages = append(reqBody.Messages, struct {
		Content string `json:"content"`
	}{Content: prompt})

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	start := time.Now()
	err = sess.Do(ctx, http.MethodPost, "/api/v2/cortex/inference:complete", reqBody, &payload)
	metrics.ObserveRemoteCall("complete", "cortex", int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", &domain.RemoteCallError{
			Provider:  "cortex",
			Operation: "complete",
			Hint:      "check that the warehouse is running and the model name is in the catalog",
			Cause:     err,
		}
	}

	for _, ch := range payload.Choices {
		if ch.Message.Content != "" {
			return ch.Message.Content, nil
		}
	}
	return "", &domain.RemoteCallError{
		Provider:  "cortex",
		Operation: "complete",
		Hint:      "the service returned an empty choice list",
		Cause:     errors.New("no choice content"),
	}
}
