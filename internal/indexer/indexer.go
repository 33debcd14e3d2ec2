// Package indexer runs the ingest pipeline: extract, chunk, embed, store.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/chunker"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/fileid"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/rag"
	"github.com/hyperjump/kotae/internal/storage"
)

// Indexer turns raw documents and files into stored, vector-indexed chunks.
type Indexer struct {
	storage   storage.Storage
	engine    *rag.Engine
	chunker   *chunker.Chunker
	extractor *extract.Extractor
	logger    *zap.Logger
}

// NewIndexer creates an indexer. extractor may be nil, in which case files are
// read as plain text.
func NewIndexer(
	store storage.Storage,
	engine *rag.Engine,
	ch *chunker.Chunker,
	extractor *extract.Extractor,
	logger *zap.Logger,
) *Indexer {
	return &Indexer{
		storage:   store,
		engine:    engine,
		chunker:   ch,
		extractor: extractor,
		logger:    logger,
	}
}

// IndexDocument stores the document, chunks its content, and indexes the
// chunks into the vector store. Returns the document ID (generated when the
// input carries none).
func (idx *Indexer) IndexDocument(ctx context.Context, input *models.DocumentInput) (string, error) {
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	doc := &models.Document{
		ID:       input.ID,
		Title:    input.Title,
		Content:  Preprocess(input.Content),
		Metadata: input.Metadata,
	}
	if err := idx.storage.CreateDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}

	chunks := idx.chunker.Chunk(doc.Content)
	if len(chunks) == 0 {
		chunks = []models.Chunk{{Content: doc.Content, ChunkIndex: 0}}
	}
	if pageCount := metadataInt(doc.Metadata, "page_count"); pageCount > 0 {
		chunker.AssignPages(chunks, pageCount, len([]rune(doc.Content)))
	}

	vectorIDs, err := idx.engine.IndexDocument(ctx, doc.ID, chunks)
	if err != nil {
		return "", fmt.Errorf("index chunks: %w", err)
	}

	records := make([]*models.DocumentChunk, len(chunks))
	for i, ch := range chunks {
		records[i] = &models.DocumentChunk{
			ID:           fmt.Sprintf("%s_%d", doc.ID, ch.ChunkIndex),
			DocumentID:   doc.ID,
			Content:      ch.Content,
			ChunkIndex:   ch.ChunkIndex,
			PageNumber:   ch.PageNumber,
			SectionTitle: ch.SectionTitle,
			VectorID:     vectorIDs[i],
		}
	}
	if err := idx.storage.BatchCreateChunks(ctx, records); err != nil {
		return "", fmt.Errorf("store chunks: %w", err)
	}
	if err := idx.storage.MarkDocumentIndexed(ctx, doc.ID); err != nil {
		return "", fmt.Errorf("mark indexed: %w", err)
	}
	return doc.ID, nil
}

const (
	metaKeySourcePath  = "source_path"
	metaKeySourceMtime = "source_mtime"
	metaKeySourceSize  = "source_size"
)

// IndexFile extracts and indexes the file at path. The document ID is derived
// from the absolute path so re-indexing the same file updates the same
// document. Files already indexed with the same mtime and size are skipped.
func (idx *Indexer) IndexFile(ctx context.Context, path string, allowedExts []string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}

	docID := fileid.FileDocID(absPath)
	if idx.isUnchanged(ctx, absPath, docID, info) {
		idx.logger.Debug("skipping unchanged file", zap.String("path", absPath))
		return nil
	}

	parsed, err := idx.extractFile(absPath)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}

	_ = idx.DeleteDocument(ctx, docID)

	input := &models.DocumentInput{
		ID:      docID,
		Title:   parsed.Filename,
		Content: parsed.FullText,
		Metadata: map[string]interface{}{
			"file_type":  parsed.FileType,
			"page_count": parsed.Metadata.PageCount,
			"word_count": parsed.Metadata.WordCount,
			// Stored as strings to avoid JSON float64 precision loss (UnixNano exceeds 53 bits).
			metaKeySourcePath:  absPath,
			metaKeySourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
			metaKeySourceSize:  strconv.FormatInt(info.Size(), 10),
		},
	}
	if _, err := idx.IndexDocument(ctx, input); err != nil {
		return err
	}
	idx.logger.Debug("file indexed", zap.String("path", absPath), zap.String("doc_id", docID))
	return nil
}

// isUnchanged reports whether docID is already indexed for absPath with the
// same mtime and size.
func (idx *Indexer) isUnchanged(ctx context.Context, absPath, docID string, info os.FileInfo) bool {
	doc, err := idx.storage.GetDocument(ctx, docID)
	if err != nil || doc.Metadata == nil || !doc.Indexed {
		return false
	}
	if doc.Metadata[metaKeySourcePath] != absPath {
		return false
	}
	return metadataInt64(doc.Metadata, metaKeySourceMtime) == info.ModTime().UnixNano() &&
		metadataInt64(doc.Metadata, metaKeySourceSize) == info.Size()
}

// IndexDirectory walks dir recursively and indexes each regular file whose
// extension is allowed. Returns the number of files indexed and the first
// error encountered.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so only regular files are indexed.
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if indexErr := idx.IndexFile(ctx, path, allowedExts); indexErr != nil {
			return indexErr
		}
		n++
		return nil
	})
	return n, err
}

// DeleteDocument removes the document and its chunks from storage. Vectors
// stay in the index because the flat layout has no deletion; their hits point
// at a document that no longer resolves and future re-index runs add fresh
// vectors.
func (idx *Indexer) DeleteDocument(ctx context.Context, id string) error {
	if err := idx.storage.DeleteChunksByDocumentID(ctx, id); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := idx.storage.DeleteDocument(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete document: %w", err)
	}
	idx.logger.Debug("document deleted", zap.String("id", id))
	return nil
}

func (idx *Indexer) extractFile(path string) (*models.ParsedDocument, error) {
	if idx.extractor != nil {
		return idx.extractor.Extract(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	filename := filepath.Base(path)
	return &models.ParsedDocument{
		Filename: filename,
		FileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		FullText: string(content),
	}, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

func metadataInt(m map[string]interface{}, key string) int {
	return int(metadataInt64(m, key))
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
