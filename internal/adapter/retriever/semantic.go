package retriever

import (
	"context"
	"fmt"

	"careerpilot/internal/adapter/store"
	"careerpilot/internal/domain"
	"careerpilot/internal/port"
)

// SemanticRetriever embeds a query, searches the vector index and joins the
// hits back to their chunks.
type SemanticRetriever struct {
	index    port.VectorIndex
	embedder port.EmbeddingProvider
	chunks   port.DocumentStore
}

func NewSemanticRetriever(
	index port.VectorIndex,
	embedder port.EmbeddingProvider,
	chunks port.DocumentStore,
) *SemanticRetriever {
	return &SemanticRetriever{
		index:    index,
		embedder: embedder,
		chunks:   chunks,
	}
}

// Search returns up to k results by descending score.
func (r *SemanticRetriever) Search(ctx context.Context, query string, k int) ([]domain.QueryResult, error) {
	hits, err := r.SearchHits(ctx, query, k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.QueryResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := r.chunks.Get(hit.Row)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.QueryResult{
			Text:   chunk.Text,
			Score:  hit.Score,
			Source: chunk.SourceID,
			Metadata: domain.ResultMetadata{
				Position: chunk.Position,
				Row:      hit.Row,
			},
		})
	}

	return results, nil
}

// SearchHits returns the raw index hits for query.
func (r *SemanticRetriever) SearchHits(ctx context.Context, query string, k int) ([]domain.Hit, error) {
	if n, m := r.index.Count(), r.chunks.Len(); n != m {
		return nil, fmt.Errorf("%w: index has %d vectors, store has %d chunks", domain.ErrIndexOutOfRange, n, m)
	}
	if r.index.Count() == 0 || k <= 0 {
		return []domain.Hit{}, nil
	}

	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.index.Search(store.Normalize(vec), k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return hits, nil
}
