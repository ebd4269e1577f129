package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/infra/metrics"
)

var _ adapter.CompletionAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel}, nil
}

func (g *GeminiAdapter) ListModels(ctx context.Context) ([]string, error) {
	models := g.client.Models.All(ctx)
	var out []string
	for m := range models {
		if m.Name != "" {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 && g.defaultModel != "" {
		out = []string{g.defaultModel}
	}
	return out, nil
}

func (g *GeminiAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	ctx := context.Background()
	m, err := g.client.Models.Get(ctx, modelOrDefault(model, g.defaultModel), nil)
	if err != nil {
		// Return minimal info on error so callers are not blocked.
		return adapter.ModelInfo{Name: model, Provider: "gemini"}, nil
	}
	return adapter.ModelInfo{
		Name:        m.Name,
		Provider:    "gemini",
		Description: m.Description,
		MaxTokens:   int(m.InputTokenLimit),
	}, nil
}

func (g *GeminiAdapter) Complete(ctx context.Context, model, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(
		ctx,
		modelOrDefault(model, g.defaultModel),
		genai.Text(prompt),
		nil,
	)
	metrics.ObserveRemoteCall("complete", "gemini", int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", &domain.RemoteCallError{
			Provider:  "gemini",
			Operation: "complete",
			Hint:      "verify ai.gemini_key and the model name",
			Cause:     err,
		}
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return "", &domain.RemoteCallError{
			Provider:  "gemini",
			Operation: "complete",
			Hint:      "the service returned no candidates",
			Cause:     errors.New("empty response"),
		}
	}
	return text, nil
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}
