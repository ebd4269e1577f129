// File: internal/usecase/search_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/adapter"
)

var _ SearchUseCase = (*searchUC)(nil)

type SearchUseCase interface {
	Search(ctx context.Context, servicePath, query string, columns []string, limit int) ([]model.SearchResult, error)
	// Answer runs retrieval-augmented generation: search, fold the matching
	// chunks into a context block, complete once.
	Answer(ctx context.Context, servicePath, question, modelName string, limit int) (string, []model.SearchResult, error)
}

type searchUC struct {
	search  adapter.SearchAdapter
	ai      adapter.CompletionAdapter
	columns []string
	log     *zerolog.Logger
}

func NewSearchUseCase(search adapter.SearchAdapter, ai adapter.CompletionAdapter, columns []string, log *zerolog.Logger) *searchUC {
	return &searchUC{search: search, ai: ai, columns: columns, log: log}
}

// Search validates the service path before anything goes over the wire; a
// malformed path skips the remote call entirely.
func (s *searchUC) Search(ctx context.Context, servicePath, query string, columns []string, limit int) ([]model.SearchResult, error) {
	path, err := model.ParseServicePath(servicePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	if len(columns) == 0 {
		columns = s.columns
	}
	return s.search.Search(ctx, path, query, columns, limit)
}

const answerTemplate = "Answer the question using only the context provided below. " +
	"If the context does not contain the answer, say so.\n\nContext:\n%s\n\nQuestion: %s\n\nAnswer:"

func (s *searchUC) Answer(ctx context.Context, servicePath, question, modelName string, limit int) (string, []model.SearchResult, error) {
	results, err := s.Search(ctx, servicePath, question, nil, limit)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if text, ok := r.Columns["CHUNK_TEXT"]; ok {
			b.WriteString(text)
			continue
		}
		// no CHUNK_TEXT column on this service: fold everything we got back
		for _, v := range r.Columns {
			b.WriteString(v)
			b.WriteString(" ")
		}
	}

	p := fmt.Sprintf(answerTemplate, b.String(), question)
	reply, err := s.ai.Complete(ctx, modelName, p)
	if err != nil {
		return "", results, err
	}
	return reply, results, nil
}
