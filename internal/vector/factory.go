package vector

import "fmt"

// Kind identifies a vector index implementation.
type Kind string

const (
	// KindFlat is the in-process brute-force index. Exact, no external deps.
	KindFlat Kind = "flat"
	// KindFAISS uses the FAISS C API. Requires building with -tags=faiss and
	// the FAISS library installed.
	KindFAISS Kind = "faiss"
)

// NewIndex creates an index of the given kind ("flat" when empty).
func NewIndex(kind string, dimensions int) (Index, error) {
	switch Kind(kind) {
	case KindFlat, "":
		return NewFlatIndex(dimensions)
	case KindFAISS:
		return NewFAISSIndex(dimensions)
	default:
		return nil, fmt.Errorf("unknown index kind: %q (supported: flat, faiss)", kind)
	}
}

// IsFAISSAvailable reports whether FAISS support is compiled in.
func IsFAISSAvailable() bool {
	idx, err := NewFAISSIndex(1)
	if err != nil {
		return false
	}
	_ = idx.Close()
	return true
}
