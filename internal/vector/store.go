package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	indexFileName    = "vectors.idx"
	metadataFileName = "metadata.json"
)

// Hit is a single search result from the store.
type Hit struct {
	VectorID int64
	Score    float64
	Metadata map[string]interface{}
}

// Stats summarizes the store contents.
type Stats struct {
	TotalVectors int64  `json:"total_vectors"`
	Dimensions   int    `json:"dimensions"`
	IndexKind    string `json:"index_kind"`
}

// Store pairs an Index with a metadata side-table keyed by vector id and
// persists both under one directory. Every successful Add is durable before it
// returns. Safe for concurrent use: adds are exclusive, searches are shared.
type Store struct {
	mu       sync.RWMutex
	index    Index
	dir      string
	metadata map[int64]map[string]interface{}
}

// OpenStore opens or creates a store in dir backed by index. Existing
// artifacts are loaded when both are present; a lone vector file or a lone
// metadata file fails with ErrCorruptIndex, as does a count mismatch between
// the two.
func OpenStore(dir string, index Index) (*Store, error) {
	s := &Store{
		index:    index,
		dir:      dir,
		metadata: make(map[int64]map[string]interface{}),
	}

	indexPath := filepath.Join(dir, indexFileName)
	metadataPath := filepath.Join(dir, metadataFileName)
	indexExists := fileExists(indexPath)
	metadataExists := fileExists(metadataPath)

	switch {
	case !indexExists && !metadataExists:
		return s, nil
	case indexExists != metadataExists:
		return nil, fmt.Errorf("%w: found %s without %s in %s",
			ErrCorruptIndex, presentName(indexExists), absentName(indexExists), dir)
	}

	if err := index.Load(indexPath); err != nil {
		return nil, err
	}
	metadata, err := loadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}
	if int64(len(metadata)) != index.Ntotal() {
		return nil, fmt.Errorf("%w: %d vectors but %d metadata entries",
			ErrCorruptIndex, index.Ntotal(), len(metadata))
	}
	s.metadata = metadata
	return s, nil
}

func presentName(indexExists bool) string {
	if indexExists {
		return indexFileName
	}
	return metadataFileName
}

func absentName(indexExists bool) string {
	if indexExists {
		return metadataFileName
	}
	return indexFileName
}

// Add appends vectors with their metadata and returns the assigned ids. The
// index and metadata files are rewritten before Add returns; on persistence
// failure the in-memory state still includes the new vectors and the error
// reports the unsynced write.
func (s *Store) Add(vectors [][]float32, metadatas []map[string]interface{}) ([]int64, error) {
	if len(vectors) != len(metadatas) {
		return nil, fmt.Errorf("vectors and metadatas length mismatch: %d vs %d", len(vectors), len(metadatas))
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	startID := s.index.Ntotal()
	if err := s.index.Add(vectors); err != nil {
		return nil, err
	}
	ids := make([]int64, len(vectors))
	for i := range vectors {
		id := startID + int64(i)
		ids[i] = id
		s.metadata[id] = metadatas[i]
	}

	if err := s.persist(); err != nil {
		return ids, fmt.Errorf("persist after add: %w", err)
	}
	return ids, nil
}

// Search returns up to k hits ordered by descending similarity, where
// similarity is 1/(1+d) for squared L2 distance d. When filter is non-empty,
// hits whose metadata does not carry every filter key with an equal value are
// dropped after the nearest-neighbor fetch, so fewer than k hits may return.
func (s *Store) Search(query []float32, k int, filter map[string]interface{}) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index.Ntotal() == 0 {
		return nil, nil
	}
	ids, distances, err := s.index.Search(query, k)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(ids))
	for i, id := range ids {
		if id < 0 {
			continue
		}
		metadata := s.metadata[id]
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		if len(filter) > 0 && !matchesFilter(metadata, filter) {
			continue
		}
		hits = append(hits, Hit{
			VectorID: id,
			Score:    SimilarityFromDistance(distances[i]),
			Metadata: metadata,
		})
	}
	return hits, nil
}

func matchesFilter(metadata, filter map[string]interface{}) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares numbers by value: metadata carries Go ints at index
// time but float64 after a JSON reload, and filters decoded from request
// bodies arrive as float64.
func valuesEqual(a, b interface{}) bool {
	af, aok := asFloat64(a)
	bf, bok := asFloat64(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func asFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Stats returns counts and index identity for status reporting.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TotalVectors: s.index.Ntotal(),
		Dimensions:   s.index.Dimensions(),
		IndexKind:    s.index.Kind(),
	}
}

// Close releases the underlying index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// persist writes both artifacts through temp files and renames them into
// place. Both temp files are staged before either rename, so the pair can
// only disagree if the process dies between the two renames; recover by
// deleting both files and re-indexing. The caller holds the write lock.
func (s *Store) persist() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	indexPath := filepath.Join(s.dir, indexFileName)
	metadataPath := filepath.Join(s.dir, metadataFileName)
	indexTmp := indexPath + ".tmp"
	metadataTmp := metadataPath + ".tmp"

	if err := s.index.Save(indexTmp); err != nil {
		return err
	}
	if err := saveMetadata(metadataTmp, s.metadata); err != nil {
		return err
	}
	if err := os.Rename(indexTmp, indexPath); err != nil {
		return fmt.Errorf("rename index file: %w", err)
	}
	if err := os.Rename(metadataTmp, metadataPath); err != nil {
		return fmt.Errorf("rename metadata file: %w", err)
	}
	return nil
}

// JSON object keys are strings, so ids round-trip as their decimal form.
func saveMetadata(path string, metadata map[int64]map[string]interface{}) error {
	encoded := make(map[string]map[string]interface{}, len(metadata))
	for id, m := range metadata {
		encoded[strconv.FormatInt(id, 10)] = m
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

func loadMetadata(path string) (map[int64]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	var encoded map[string]map[string]interface{}
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("%w: decode metadata: %v", ErrCorruptIndex, err)
	}
	metadata := make(map[int64]map[string]interface{}, len(encoded))
	for key, m := range encoded {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: metadata key %q is not a vector id", ErrCorruptIndex, key)
		}
		metadata[id] = m
	}
	return metadata, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
