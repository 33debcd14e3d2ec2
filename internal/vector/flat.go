package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// FlatIndex is a brute-force L2 index holding all vectors in memory as one
// contiguous slice. Exact and dependency-free; fine up to a few hundred
// thousand vectors.
type FlatIndex struct {
	dimensions int
	data       []float32
	count      int64
}

// NewFlatIndex creates an empty flat index with the given dimension.
func NewFlatIndex(dimensions int) (*FlatIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	return &FlatIndex{dimensions: dimensions}, nil
}

// Add appends vectors, assigning ids sequentially from the current count.
func (x *FlatIndex) Add(vectors [][]float32) error {
	for _, vec := range vectors {
		if len(vec) != x.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vec), x.dimensions)
		}
	}
	for _, vec := range vectors {
		x.data = append(x.data, vec...)
	}
	x.count += int64(len(vectors))
	return nil
}

// Search scans all vectors and returns the k nearest by squared L2 distance,
// ascending. Fewer than k results are returned when the index is smaller.
func (x *FlatIndex) Search(query []float32, k int) ([]int64, []float32, error) {
	if len(query) != x.dimensions {
		return nil, nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), x.dimensions)
	}
	if k <= 0 || x.count == 0 {
		return nil, nil, nil
	}
	if int64(k) > x.count {
		k = int(x.count)
	}

	type scored struct {
		id   int64
		dist float32
	}
	scores := make([]scored, x.count)
	for i := int64(0); i < x.count; i++ {
		vec := x.data[i*int64(x.dimensions) : (i+1)*int64(x.dimensions)]
		var dist float32
		for j, q := range query {
			d := q - vec[j]
			dist += d * d
		}
		scores[i] = scored{id: i, dist: dist}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].dist != scores[j].dist {
			return scores[i].dist < scores[j].dist
		}
		return scores[i].id < scores[j].id
	})

	ids := make([]int64, k)
	distances := make([]float32, k)
	for i := 0; i < k; i++ {
		ids[i] = scores[i].id
		distances[i] = scores[i].dist
	}
	return ids, distances, nil
}

// Ntotal returns the number of stored vectors.
func (x *FlatIndex) Ntotal() int64 {
	return x.count
}

// Dimensions returns the vector dimension.
func (x *FlatIndex) Dimensions() int {
	return x.dimensions
}

// Kind returns "flat".
func (x *FlatIndex) Kind() string {
	return string(KindFlat)
}

// Save writes the index to path. Format: dimension (uint32), count (uint32),
// then count*dimension float32 values, all little endian.
func (x *FlatIndex) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, uint32(x.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(x.count)); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	if _, err := f.Write(float32SliceToBytes(x.data)); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	return f.Sync()
}

// Load replaces the index contents with the file at path. The stored dimension
// must match the index dimension.
func (x *FlatIndex) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("%w: read dimensions: %v", ErrCorruptIndex, err)
	}
	if int(dim) != x.dimensions {
		return fmt.Errorf("%w: dimension mismatch: file has %d, index expects %d", ErrCorruptIndex, dim, x.dimensions)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("%w: read count: %v", ErrCorruptIndex, err)
	}
	buf := make([]byte, int(n)*x.dimensions*4)
	if _, err := io.ReadFull(f, buf); err != nil {
		return fmt.Errorf("%w: read vectors: %v", ErrCorruptIndex, err)
	}
	x.data = bytesToFloat32Slice(buf)
	x.count = int64(n)
	return nil
}

// Close is a no-op for FlatIndex.
func (x *FlatIndex) Close() error {
	return nil
}

func float32SliceToBytes(s []float32) []byte {
	out := make([]byte, len(s)*4)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*4:(i+1)*4], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : (i+1)*4]))
	}
	return out
}
