// Package extract parses document files into text and metadata.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lu4p/cat"

	"github.com/hyperjump/kotae/internal/models"
)

// Extractor parses supported document formats into a ParsedDocument.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// supportedExtensions are the formats Extract handles natively. Anything else
// is attempted as plain text.
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".odt":  true,
	".rtf":  true,
	".xlsx": true,
	".txt":  true,
	".md":   true,
	".rst":  true,
}

// IsSupported reports whether ext (with leading dot) has a dedicated parser.
func IsSupported(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// Extract parses the file at path. The returned document carries the full
// text plus title, page count, and word count; chunking is left to the caller.
// Page count is real for PDFs and 1 for every other non-empty format.
func (e *Extractor) Extract(path string) (*models.ParsedDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var fullText string
	var pageCount int
	switch ext {
	case ".pdf":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		pages, err := extractPDF(content)
		if err != nil {
			return nil, err
		}
		fullText = strings.Join(pages, "\n")
		pageCount = len(pages)
	case ".docx":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		text, err := extractDOCX(content)
		if err != nil {
			return nil, err
		}
		fullText = text
	case ".odt", ".rtf":
		text, err := cat.File(path)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", ext, err)
		}
		fullText = text
	case ".xlsx":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		text, err := extractExcel(content)
		if err != nil {
			return nil, err
		}
		fullText = text
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		text, err := extractPlain(content)
		if err != nil {
			return nil, err
		}
		fullText = text
	}

	if pageCount == 0 && strings.TrimSpace(fullText) != "" {
		pageCount = 1
	}

	filename := filepath.Base(path)
	fileType := strings.TrimPrefix(ext, ".")
	if fileType == "" {
		fileType = "txt"
	}
	return &models.ParsedDocument{
		Filename: filename,
		FileType: fileType,
		FullText: fullText,
		Metadata: models.DocumentMetadata{
			Title:     strings.TrimSuffix(filename, filepath.Ext(filename)),
			PageCount: pageCount,
			WordCount: len(strings.Fields(fullText)),
		},
	}, nil
}
