package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"os"
	"sort"
	"sync"

	"careerpilot/internal/domain"
)

const (
	indexMagic   = "CPVI"
	indexVersion = uint16(1)
	// magic + version + dimension + count
	indexHeaderSize = 4 + 2 + 4 + 4
)

// FlatIndex is an exact inner-product index over normalized vectors.
// Rows are append-only; row i corresponds to document row i.
// Search is brute force, which is fine for CV-sized corpora.
type FlatIndex struct {
	mu        sync.RWMutex
	dimension int
	rows      [][]float32
}

// NewFlatIndex creates an empty index. A zero dimension is fixed by the first Add.
func NewFlatIndex(dimension int) *FlatIndex {
	return &FlatIndex{dimension: dimension}
}

// Add appends vectors as new rows.
func (idx *FlatIndex) Add(vectors [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, v := range vectors {
		if idx.dimension == 0 {
			idx.dimension = len(v)
		}
		if len(v) != idx.dimension {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d", domain.ErrDimensionMismatch, i, len(v), idx.dimension)
		}
	}

	for _, v := range vectors {
		row := make([]float32, len(v))
		copy(row, v)
		idx.rows = append(idx.rows, row)
	}
	return nil
}

// Search returns up to k rows ordered by descending score. Equal scores
// keep ascending row order.
func (idx *FlatIndex) Search(query []float32, k int) ([]domain.Hit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k <= 0 || len(idx.rows) == 0 {
		return []domain.Hit{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", domain.ErrDimensionMismatch, len(query), idx.dimension)
	}

	hits := make([]domain.Hit, len(idx.rows))
	for i, row := range idx.rows {
		hits[i] = domain.Hit{Row: i, Score: dot(query, row)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (idx *FlatIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.rows)
}

func (idx *FlatIndex) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Reset drops every row.
func (idx *FlatIndex) Reset(dimension int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.dimension = dimension
	idx.rows = nil
}

// Save writes the index to path. The file is replaced atomically.
func (idx *FlatIndex) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var buf bytes.Buffer
	buf.Grow(indexHeaderSize + len(idx.rows)*idx.dimension*4 + 4)

	buf.WriteString(indexMagic)
	le := binary.LittleEndian
	buf.Write(le.AppendUint16(nil, indexVersion))
	buf.Write(le.AppendUint32(nil, uint32(idx.dimension)))
	buf.Write(le.AppendUint32(nil, uint32(len(idx.rows))))
	for _, row := range idx.rows {
		for _, f := range row {
			buf.Write(le.AppendUint32(nil, math.Float32bits(f)))
		}
	}
	buf.Write(le.AppendUint32(nil, crc32.ChecksumIEEE(buf.Bytes())))

	return writeFileAtomic(path, buf.Bytes())
}

// Load replaces the index contents with the rows stored at path.
func (idx *FlatIndex) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	dimension, rows, err := decodeIndex(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.dimension = dimension
	idx.rows = rows
	return nil
}

func decodeIndex(data []byte) (int, [][]float32, error) {
	if len(data) < indexHeaderSize+4 {
		return 0, nil, fmt.Errorf("%w: truncated header", domain.ErrCorruptIndex)
	}
	if string(data[:4]) != indexMagic {
		return 0, nil, fmt.Errorf("%w: bad magic", domain.ErrCorruptIndex)
	}

	le := binary.LittleEndian
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	if crc32.ChecksumIEEE(body) != le.Uint32(trailer) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", domain.ErrCorruptIndex)
	}

	version := le.Uint16(data[4:6])
	if version != indexVersion {
		return 0, nil, fmt.Errorf("%w: unsupported version %d", domain.ErrCorruptIndex, version)
	}
	dimension := int(le.Uint32(data[6:10]))
	count := int(le.Uint32(data[10:14]))

	if len(body) != indexHeaderSize+count*dimension*4 {
		return 0, nil, fmt.Errorf("%w: expected %d rows of %d dimensions", domain.ErrCorruptIndex, count, dimension)
	}

	r := bytes.NewReader(body[indexHeaderSize:])
	rows := make([][]float32, count)
	for i := range rows {
		rows[i] = make([]float32, dimension)
		if err := binary.Read(r, le, rows[i]); err != nil {
			return 0, nil, fmt.Errorf("%w: row %d: %v", domain.ErrCorruptIndex, i, err)
		}
	}
	return dimension, rows, nil
}

// Normalize scales v to unit length in place and returns it. Zero vectors
// are left unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, f := range v {
		norm += float64(f) * float64(f)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
