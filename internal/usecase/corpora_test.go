package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/adapter/cache"
	"careerpilot/internal/domain"
)

func TestValidateCorpusName(t *testing.T) {
	for _, name := range []string{"cv", "interview", "jobs-2024", "my_notes"} {
		assert.NoError(t, ValidateCorpusName(name), name)
	}
	for _, name := range []string{"", ".", "..", "../cv", "a/b", `a\b`, "jobs"} {
		assert.ErrorIs(t, ValidateCorpusName(name), domain.ErrInvalidCorpus, name)
	}
}

func TestCorpora(t *testing.T) {
	dataDir := t.TempDir()
	opened := 0
	corpora := NewCorpora(func(name string) *Pipeline {
		opened++
		return newTestPipeline(t, dataDir, nil, 20, 5)
	}, func() *cache.QueryCache { return cache.NewQueryCache(10, 0) })
	ctx := context.Background()

	p, err := corpora.Pipeline(CVCorpus)
	require.NoError(t, err)
	_, err = p.BuildTexts(ctx, []SourceText{{ID: "cv.txt", Text: "Go and Kubernetes engineer"}}, nil)
	require.NoError(t, err)

	results, err := corpora.Retriever(CVCorpus).Query(ctx, "kubernetes", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cv.txt", results[0].Source)

	summary, err := corpora.Summarize(ctx, CVCorpus)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalChunks)

	assert.Equal(t, 1, opened)
	assert.Equal(t, []string{CVCorpus}, corpora.Open())

	_, err = corpora.Query(ctx, "../etc", "x", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidCorpus)
}
