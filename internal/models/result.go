package models

// SearchResult is a single retrieval hit. Score is a similarity derived from L2
// distance (1/(1+d)), bounded in (0,1]: higher means more similar. It is a
// ranking signal only, not a calibrated probability.
type SearchResult struct {
	Content    string                 `json:"content"`
	Score      float64                `json:"score"`
	DocumentID string                 `json:"document_id"`
	ChunkIndex int                    `json:"chunk_index"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// AnswerWithSources is a generated answer together with the retrieval results it
// was grounded in. Confidence is the mean source score (0 when there are no
// sources) and is retrieval-derived, not a model-internal signal.
type AnswerWithSources struct {
	Answer     string         `json:"answer"`
	Sources    []SearchResult `json:"sources"`
	Confidence float64        `json:"confidence"`
}

// SearchResponse is the payload returned for a search request.
type SearchResponse struct {
	Query     string             `json:"query"`
	Results   []SearchResult     `json:"results"`
	Answer    *AnswerWithSources `json:"answer,omitempty"`
	Total     int                `json:"total"`
	QueryTime int64              `json:"query_time_ms"`
}
