// Package models defines core data structures for documents, chunks, and search results.
package models

import "time"

// Span marks the half-open [Start, End) character range a chunk covers in the
// original text (offsets count runes, not bytes).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Chunk is a contiguous segment of a document's text, the unit of embedding and retrieval.
// PageNumber is a best-effort estimate (0 = unknown); see chunker.AssignPages.
type Chunk struct {
	Content      string `json:"content"`
	ChunkIndex   int    `json:"chunk_index"`
	PageNumber   int    `json:"page_number,omitempty"`
	SectionTitle string `json:"section_title,omitempty"`
	Span         Span   `json:"span"`
}

// DocumentMetadata holds descriptive metadata extracted from a parsed file.
type DocumentMetadata struct {
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	PageCount int    `json:"page_count,omitempty"`
	WordCount int    `json:"word_count,omitempty"`
}

// ParsedDocument is the format-independent result of extracting a document file.
// Only FullText is required downstream; Chunks, when present, is a pre-segmentation hint.
type ParsedDocument struct {
	Filename string           `json:"filename"`
	FileType string           `json:"file_type"`
	Metadata DocumentMetadata `json:"metadata"`
	FullText string           `json:"full_text"`
	Chunks   []Chunk          `json:"chunks,omitempty"`
}

// Document represents a stored document record.
type Document struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Indexed   bool                   `json:"indexed"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// DocumentChunk is a stored chunk record. VectorID links the chunk to its entry in
// the vector store once the document is indexed (-1 before indexing).
type DocumentChunk struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Content      string    `json:"content"`
	ChunkIndex   int       `json:"chunk_index"`
	PageNumber   int       `json:"page_number,omitempty"`
	SectionTitle string    `json:"section_title,omitempty"`
	VectorID     int64     `json:"vector_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentInput is the input for creating a document via the API.
type DocumentInput struct {
	ID       string                 `json:"id,omitempty"`
	Title    string                 `json:"title,omitempty"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
