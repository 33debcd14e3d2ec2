// Package chunker splits document text into overlapping, boundary-aware chunks.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// ErrInvalidChunking indicates an invalid chunk size / overlap combination.
var ErrInvalidChunking = errors.New("invalid chunking parameters")

// Chunker splits text into chunks of at most chunkSize characters with the given
// overlap between consecutive chunks. When a window does not reach the end of the
// text, the chunk is cut at the last sentence terminator ('.' or newline) inside
// the window, provided that boundary lies at or past half the chunk size, so that
// sentences are not split when a clean break is reasonably close.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker returns a chunker. chunkSize must be positive and strictly greater
// than overlap; overlap must be non-negative. Violations return ErrInvalidChunking
// rather than producing a chunker that could loop forever.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunking, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidChunking, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be less than chunk size %d", ErrInvalidChunking, overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk splits text into ordered chunks. Empty text yields no chunks. Offsets in
// each chunk's Span count characters (runes) in the original text.
func (c *Chunker) Chunk(text string) []models.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	var chunks []models.Chunk
	start := 0
	chunkIndex := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		} else {
			// Cut at the last sentence boundary when it keeps at least half the window.
			if cut := lastBoundary(runes[start:end]); cut >= c.chunkSize/2 {
				end = start + cut + 1
			}
		}
		chunks = append(chunks, models.Chunk{
			Content:    strings.TrimSpace(string(runes[start:end])),
			ChunkIndex: chunkIndex,
			Span:       models.Span{Start: start, End: end},
		})
		chunkIndex++
		if end >= len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			// Boundary cut shrank the window below the overlap; step past it.
			next = end
		}
		start = next
	}
	return chunks
}

// lastBoundary returns the index of the last '.' or '\n' in window, or -1.
func lastBoundary(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' || window[i] == '\n' {
			return i
		}
	}
	return -1
}

// AssignPages estimates a page number for each chunk from its proportional
// character offset, assuming pages of roughly equal length. This is a best-effort
// annotation with no correctness guarantee near page breaks.
func AssignPages(chunks []models.Chunk, pageCount, textLen int) {
	if pageCount <= 0 || textLen <= 0 {
		return
	}
	charsPerPage := textLen / pageCount
	if charsPerPage <= 0 {
		charsPerPage = textLen
	}
	for i := range chunks {
		page := chunks[i].Span.Start/charsPerPage + 1
		if page > pageCount {
			page = pageCount
		}
		chunks[i].PageNumber = page
	}
}
