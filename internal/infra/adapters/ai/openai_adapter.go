package ai

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements the completion port with the official SDK. The
// flattened prompt goes out as a single user message; history lives on our
// side, not in the API call.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{o.model}, nil
}

func (o *OpenAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	if model == "" {
		model = o.model
	}
	return adapter.ModelInfo{
		Name:        model,
		Provider:    "openai",
		Description: "OpenAI Chat Completions model",
	}, nil
}

func (o *OpenAIAdapter) Complete(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = o.model
	}

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	metrics.ObserveRemoteCall("complete", "openai", int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", &domain.RemoteCallError{
			Provider:  "openai",
			Operation: "complete",
			Hint:      "verify ai.openai_key and the model name",
			Cause:     err,
		}
	}

	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", &domain.RemoteCallError{
		Provider:  "openai",
		Operation: "complete",
		Hint:      "the service returned an empty choice list",
		Cause:     errors.New("no choice content"),
	}
}
