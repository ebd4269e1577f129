package model

import (
	"strings"

	"cortex-labs/internal/domain"
)

// ServicePath names one managed search service instance as
// database.schema.service_name.
type ServicePath struct {
	Database string
	Schema   string
	Service  string
}

func (p ServicePath) String() string {
	return p.Database + "." + p.Schema + "." + p.Service
}

// ParseServicePath rejects anything that is not exactly three non-empty
// dotted parts; the remote call must be skipped on failure.
func ParseServicePath(s string) (ServicePath, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ServicePath{}, &domain.ValidationError{
			Field:  "service path",
			Reason: "must be in format: database.schema.service_name",
		}
	}
	return ServicePath{Database: parts[0], Schema: parts[1], Service: parts[2]}, nil
}

// SearchResult is one record returned by the search service: requested
// column names mapped to values, plus the relevance score when present.
type SearchResult struct {
	Columns map[string]string `json:"columns"`
	Score   float64           `json:"score,omitempty"`
}
