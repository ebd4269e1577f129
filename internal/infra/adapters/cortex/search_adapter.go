package cortex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/infra/metrics"
)

var _ adapter.SearchAdapter = (*SearchAdapter)(nil)

// SearchAdapter queries a managed search service instance. The service path
// must already be validated; this adapter only moves the request over the
// wire.
type SearchAdapter struct {
	source SessionSource
}

func NewSearchAdapter(source SessionSource) *SearchAdapter {
	return &SearchAdapter{source: source}
}

func (s *SearchAdapter) Search(ctx context.Context, path model.ServicePath, query string, columns []string, limit int) ([]model.SearchResult, error) {
	sess, err := s.source.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	endpoint := fmt.Sprintf("/api/v2/databases/%s/schemas/%s/cortex-search-services/%s:query",
		url.PathEscape(path.Database), url.PathEscape(path.Schema), url.PathEscape(path.Service))

	reqBody := struct {
		Query   string   `json:"query"`
		Columns []string `json:"columns"`
		Limit   int      `json:"limit"`
	}{Query: query, Columns: columns, Limit: limit}

	var payload struct {
		Results []map[string]any `json:"results"`
	}

	start := time.Now()
	err = sess.Do(ctx, http.MethodPost, endpoint, reqBody, &payload)
	metrics.ObserveRemoteCall("search", "cortex", int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return nil, &domain.RemoteCallError{
			Provider:  "cortex",
			Operation: "search",
			Hint:      "make sure the search service exists, has finished indexing, and you have access permissions",
			Cause:     err,
		}
	}

	out := make([]model.SearchResult, 0, len(payload.Results))
	for _, raw := range payload.Results {
		r := model.SearchResult{Columns: make(map[string]string, len(raw))}
		for k, v := range raw {
			if k == "score" || k == "@score" {
				if f, ok := v.(float64); ok {
					r.Score = f
				}
				continue
			}
			r.Columns[k] = fmt.Sprintf("%v", v)
		}
		out = append(out, r)
	}
	return out, nil
}
