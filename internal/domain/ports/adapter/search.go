package adapter

import (
	"context"

	"cortex-labs/internal/domain/model"
)

// SearchAdapter is the port for the managed search service. Retrieval,
// indexing and ranking all happen server-side; the caller only names the
// service, the query, and the columns it wants back.
type SearchAdapter interface {
	Search(ctx context.Context, path model.ServicePath, query string, columns []string, limit int) ([]model.SearchResult, error)
}
