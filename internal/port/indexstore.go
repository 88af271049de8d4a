package port

import "careerpilot/internal/domain"

// VectorIndex is an append-only exact nearest-neighbour index over
// L2-normalized vectors.
type VectorIndex interface {
	Add(vectors [][]float32) error

	// Search returns up to k hits ordered by descending score, ties by
	// ascending row.
	Search(query []float32, k int) ([]domain.Hit, error)

	Count() int

	Dimension() int

	Reset(dimension int)

	Save(path string) error

	Load(path string) error
}

// DocumentStore holds the chunk for every index row, in row order.
type DocumentStore interface {
	Append(chunks ...domain.Chunk)

	Get(row int) (domain.Chunk, error)

	Len() int

	All() []domain.Chunk

	Reset()

	Save(path string, manifest domain.IndexManifest) error

	Load(path string) (domain.IndexManifest, error)
}
