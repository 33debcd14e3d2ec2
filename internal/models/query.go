package models

import "fmt"

// SearchQuery represents a search request with optional metadata filter and
// answer generation.
type SearchQuery struct {
	Query          string                 `json:"query"`
	TopK           int                    `json:"top_k,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	GenerateAnswer bool                   `json:"generate_answer,omitempty"`
	Provider       string                 `json:"provider,omitempty"` // generation backend name; empty = configured default
}

// Validate ensures the query has valid fields and normalizes TopK.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.TopK <= 0 {
		q.TopK = 5
	}
	if q.TopK > 100 {
		q.TopK = 100
	}
	return nil
}
