package port

import (
	"context"

	"careerpilot/internal/domain"
)

// Retriever answers similarity queries against one corpus.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error)
}
