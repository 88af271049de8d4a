package port

import "context"

// EmbeddingProvider maps text to fixed-dimension dense vectors.
// Documents and queries embedded by the same provider share one embedding space.
type EmbeddingProvider interface {
	// EmbedDocuments returns one vector per input text, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName identifies the embedding space. Indexes built under one
	// model name are never searched with vectors from another.
	ModelName() string
}
