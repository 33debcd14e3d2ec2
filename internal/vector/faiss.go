//go:build faiss && cgo
// +build faiss,cgo

package vector

/*
#cgo CFLAGS: -I/opt/homebrew/include -I/usr/local/include
#cgo LDFLAGS: -L/opt/homebrew/lib -L/usr/local/lib -lfaiss_c

#include <stdlib.h>
#include <faiss/c_api/Index_c.h>
#include <faiss/c_api/IndexFlat_c.h>
#include <faiss/c_api/index_io_c.h>
#include <faiss/c_api/error_c.h>
*/
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"
)

// FAISSIndex wraps a FAISS IndexFlatL2. Ids are FAISS's own sequential
// positions, so no side mapping is needed.
type FAISSIndex struct {
	index      *C.FaissIndexFlatL2
	dimensions int
}

// NewFAISSIndex creates a FAISS flat L2 index with the given dimension.
func NewFAISSIndex(dimensions int) (*FAISSIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	var index *C.FaissIndexFlatL2
	if ret := C.faiss_IndexFlatL2_new_with(&index, C.idx_t(dimensions)); ret != 0 {
		return nil, fmt.Errorf("create FAISS index: %s", faissLastError())
	}
	return &FAISSIndex{index: index, dimensions: dimensions}, nil
}

func faissLastError() string {
	cErr := C.faiss_get_last_error()
	if cErr == nil {
		return "unknown error"
	}
	return C.GoString(cErr)
}

// Add appends vectors, assigning ids sequentially from the current count.
func (f *FAISSIndex) Add(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	flat := make([]float32, 0, len(vectors)*f.dimensions)
	for _, vec := range vectors {
		if len(vec) != f.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vec), f.dimensions)
		}
		flat = append(flat, vec...)
	}
	ret := C.faiss_Index_add(
		f.index,
		C.idx_t(len(vectors)),
		(*C.float)(unsafe.Pointer(&flat[0])),
	)
	if ret != 0 {
		return fmt.Errorf("add vectors to FAISS index: %s", faissLastError())
	}
	return nil
}

// Search returns up to k (id, distance) pairs by ascending squared L2 distance.
// FAISS fills unmatched slots with id -1.
func (f *FAISSIndex) Search(query []float32, k int) ([]int64, []float32, error) {
	if len(query) != f.dimensions {
		return nil, nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), f.dimensions)
	}
	ntotal := f.Ntotal()
	if k <= 0 || ntotal == 0 {
		return nil, nil, nil
	}
	if int64(k) > ntotal {
		k = int(ntotal)
	}

	distances := make([]float32, k)
	ids := make([]int64, k)
	ret := C.faiss_Index_search(
		f.index,
		1,
		(*C.float)(unsafe.Pointer(&query[0])),
		C.idx_t(k),
		(*C.float)(unsafe.Pointer(&distances[0])),
		(*C.idx_t)(unsafe.Pointer(&ids[0])),
	)
	if ret != 0 {
		return nil, nil, fmt.Errorf("FAISS search: %s", faissLastError())
	}
	return ids, distances, nil
}

// Ntotal returns the number of stored vectors.
func (f *FAISSIndex) Ntotal() int64 {
	return int64(C.faiss_Index_ntotal(f.index))
}

// Dimensions returns the vector dimension.
func (f *FAISSIndex) Dimensions() int {
	return f.dimensions
}

// Kind returns "faiss".
func (f *FAISSIndex) Kind() string {
	return string(KindFAISS)
}

// Save writes the FAISS index to path.
func (f *FAISSIndex) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	if ret := C.faiss_write_index_fname(f.index, cPath); ret != 0 {
		return fmt.Errorf("save FAISS index: %s", faissLastError())
	}
	return nil
}

// Load replaces the index contents with the file at path. The stored dimension
// must match the index dimension.
func (f *FAISSIndex) Load(path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var loaded *C.FaissIndex
	if ret := C.faiss_read_index_fname(cPath, 0, &loaded); ret != 0 {
		return fmt.Errorf("%w: load FAISS index: %s", ErrCorruptIndex, faissLastError())
	}
	if dim := int(C.faiss_Index_d(loaded)); dim != f.dimensions {
		C.faiss_Index_free(loaded)
		return fmt.Errorf("%w: dimension mismatch: file has %d, index expects %d", ErrCorruptIndex, dim, f.dimensions)
	}
	if f.index != nil {
		C.faiss_Index_free(f.index)
	}
	f.index = (*C.FaissIndexFlatL2)(loaded)
	return nil
}

// Close frees the FAISS index resources.
func (f *FAISSIndex) Close() error {
	if f.index != nil {
		C.faiss_Index_free(f.index)
		f.index = nil
	}
	return nil
}
