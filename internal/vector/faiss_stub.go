//go:build !faiss || !cgo
// +build !faiss !cgo

package vector

import "fmt"

// FAISSIndex stub when FAISS support is not compiled in. Build with
// -tags=faiss and CGO enabled for the real implementation.
type FAISSIndex struct{}

// NewFAISSIndex returns an error because FAISS is not available in this build.
func NewFAISSIndex(dimensions int) (*FAISSIndex, error) {
	return nil, fmt.Errorf("FAISS not available: build with -tags=faiss and install the FAISS library")
}

func (f *FAISSIndex) Add(vectors [][]float32) error {
	return fmt.Errorf("FAISS not available")
}

func (f *FAISSIndex) Search(query []float32, k int) ([]int64, []float32, error) {
	return nil, nil, fmt.Errorf("FAISS not available")
}

func (f *FAISSIndex) Ntotal() int64 { return 0 }

func (f *FAISSIndex) Dimensions() int { return 0 }

func (f *FAISSIndex) Kind() string { return string(KindFAISS) }

func (f *FAISSIndex) Save(path string) error { return fmt.Errorf("FAISS not available") }

func (f *FAISSIndex) Load(path string) error { return fmt.Errorf("FAISS not available") }

func (f *FAISSIndex) Close() error { return nil }
