package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/adapter/cache"
	"careerpilot/internal/adapter/chunker"
	"careerpilot/internal/adapter/embedding"
	"careerpilot/internal/adapter/extract"
	"careerpilot/internal/adapter/fs"
	"careerpilot/internal/domain"
	"careerpilot/internal/port"
)

func newTestPipeline(t *testing.T, dataDir string, emb port.EmbeddingProvider, size, overlap int) *Pipeline {
	t.Helper()
	ch, err := chunker.NewWordChunker(size, overlap)
	require.NoError(t, err)
	if emb == nil {
		emb, err = embedding.NewLocalProvider(384, "")
		require.NoError(t, err)
	}
	registry := extract.NewRegistry()
	return NewPipeline("cv", dataDir, PipelineDeps{
		Extractor: registry,
		Expander:  fs.NewWalker(nil, registry.Supports),
		Chunker:   ch,
		Embedder:  emb,
		BatchSize: 2,
	}, nil)
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cv := write(t, dir, "cv.txt", "Experienced in Python and TensorFlow")

	p := newTestPipeline(t, filepath.Join(dir, "data"), nil, 500, 50)
	assert.Equal(t, StateEmpty, p.State())

	result, err := p.Build(context.Background(), []string{cv}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Chunks)
	assert.Equal(t, []string{cv}, result.Sources)
	assert.Equal(t, StateBuilt, p.State())

	results, err := p.Query(context.Background(), "What languages does the candidate know?", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "Python")
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, cv, results[0].Source)
}

func TestPipeline_NoDocuments(t *testing.T) {
	dir := t.TempDir()
	empty := write(t, dir, "empty.txt", "   \n ")
	image := write(t, dir, "scan.png", "\x89PNG")
	missing := filepath.Join(dir, "missing.pdf")

	p := newTestPipeline(t, filepath.Join(dir, "data"), nil, 10, 2)
	_, err := p.Build(context.Background(), []string{empty, image, missing}, nil)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
	assert.Equal(t, StateEmpty, p.State())

	_, err = p.Build(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestPipeline_SkipsFailedSources(t *testing.T) {
	dir := t.TempDir()
	good := write(t, dir, "cv.txt", "Go developer with Kubernetes experience")
	bad := write(t, dir, "cv.pdf", "not really a pdf")

	p := newTestPipeline(t, filepath.Join(dir, "data"), nil, 10, 2)
	result, err := p.Build(context.Background(), []string{bad, good}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{bad}, result.Skipped)
	assert.Equal(t, []string{good}, result.Sources)
}

func TestPipeline_QueryWithoutIndex(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), nil, 10, 2)

	_, err := p.Query(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, domain.ErrNoIndex)

	_, err = p.Summarize(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoIndex)
}

var roundTripDocs = []SourceText{
	{ID: "cv", Text: "Senior Software Engineer at TechCorp. Developed web applications using Python, Django and React. Led a team of 5 developers."},
	{ID: "education", Text: "Bachelor of Science in Computer Science, University of Technology, GPA 3.8."},
	{ID: "skills", Text: "Programming Languages: Python, JavaScript, Java, C++. Tools: Docker, Jenkins, Git, AWS."},
}

func TestPipeline_RoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	fresh := newTestPipeline(t, dataDir, nil, 6, 2)
	_, err := fresh.BuildTexts(ctx, roundTripDocs, nil)
	require.NoError(t, err)

	loaded := newTestPipeline(t, dataDir, nil, 6, 2)
	queries := []string{"python", "Which university?", "team leadership", "docker aws"}
	for _, q := range queries {
		for _, k := range []int{1, 3, 100} {
			want, err := fresh.Query(ctx, q, k)
			require.NoError(t, err)
			got, err := loaded.Query(ctx, q, k)
			require.NoError(t, err)
			assert.Equal(t, want, got, "query %q k=%d", q, k)
		}
	}
	assert.Equal(t, StateLoaded, loaded.State())
}

func TestPipeline_KLargerThanCorpus(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), nil, 6, 2)
	_, err := p.BuildTexts(context.Background(), roundTripDocs, nil)
	require.NoError(t, err)

	summary, err := p.Summarize(context.Background())
	require.NoError(t, err)

	results, err := p.Query(context.Background(), "python", 1000)
	require.NoError(t, err)
	assert.Len(t, results, summary.TotalChunks)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestPipeline_EmbeddingMismatch(t *testing.T) {
	dataDir := t.TempDir()
	p := newTestPipeline(t, dataDir, nil, 10, 2)
	_, err := p.BuildTexts(context.Background(), roundTripDocs, nil)
	require.NoError(t, err)

	other, err := embedding.NewLocalProvider(256, "")
	require.NoError(t, err)
	q := newTestPipeline(t, dataDir, other, 10, 2)

	_, err = q.Query(context.Background(), "python", 1)
	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)
	assert.Equal(t, StateEmpty, q.State())
}

func TestPipeline_MissingIndexFile(t *testing.T) {
	dataDir := t.TempDir()
	p := newTestPipeline(t, dataDir, nil, 10, 2)
	_, err := p.BuildTexts(context.Background(), roundTripDocs, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dataDir, "cv.vec")))

	_, err = newTestPipeline(t, dataDir, nil, 10, 2).Query(context.Background(), "python", 1)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestPipeline_RebuildReplacesContents(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), nil, 50, 5)
	ctx := context.Background()

	_, err := p.BuildTexts(ctx, []SourceText{{ID: "old", Text: "COBOL mainframe programmer"}}, nil)
	require.NoError(t, err)
	gen := p.Generation()

	_, err = p.BuildTexts(ctx, []SourceText{{ID: "new", Text: "Rust systems engineer"}}, nil)
	require.NoError(t, err)
	assert.Greater(t, p.Generation(), gen)

	results, err := p.Query(ctx, "COBOL", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Source)
}

func TestPipeline_Progress(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), nil, 4, 1)

	var calls [][2]int
	_, err := p.BuildTexts(context.Background(), roundTripDocs, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)
	require.NotEmpty(t, calls)

	last := calls[len(calls)-1]
	assert.Equal(t, last[0], last[1])
	for i := 1; i < len(calls); i++ {
		assert.Greater(t, calls[i][0], calls[i-1][0])
	}
}

type failingEmbedder struct {
	port.EmbeddingProvider
	err error
}

func (f *failingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.EmbeddingProvider.EmbedDocuments(ctx, texts)
}

func TestPipeline_EmbeddingFailureKeepsPreviousCorpus(t *testing.T) {
	local, err := embedding.NewLocalProvider(64, "")
	require.NoError(t, err)
	emb := &failingEmbedder{EmbeddingProvider: local}
	p := newTestPipeline(t, t.TempDir(), emb, 10, 2)
	ctx := context.Background()

	_, err = p.BuildTexts(ctx, roundTripDocs, nil)
	require.NoError(t, err)

	emb.err = domain.ErrTransient
	_, err = p.BuildTexts(ctx, []SourceText{{ID: "x", Text: "replacement"}}, nil)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.True(t, domain.IsRetryable(err))

	results, err := p.Query(ctx, "python", 1)
	require.NoError(t, err)
	assert.NotEqual(t, "x", results[0].Source)
}

func TestPipeline_Summarize(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), nil, 50, 0)
	_, err := p.BuildTexts(context.Background(), []SourceText{
		{ID: "a", Text: "Work experience at Acme as engineer"},
		{ID: "b", Text: "Graduated from State University"},
		{ID: "c", Text: "Programming languages: Go, Python"},
		{ID: "d", Text: "Built a portfolio project"},
	}, nil)
	require.NoError(t, err)

	summary, err := p.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cv", summary.Corpus)
	assert.Equal(t, 4, summary.TotalChunks)
	assert.Equal(t, 18, summary.TotalWords)
	assert.Equal(t, map[string]int{"experience": 1, "education": 1, "skills": 1, "projects": 1}, summary.Sections)
	assert.Equal(t, "Work experience at Acme as engineer", summary.SampleText)
}

func TestPipeline_ConcurrentQueriesAndBuild(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), nil, 6, 2)
	ctx := context.Background()
	_, err := p.BuildTexts(ctx, roundTripDocs, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Query(ctx, "python developer", 3); err != nil {
				errs <- err
			}
		}()
	}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.BuildTexts(ctx, roundTripDocs, nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestPipeline_CachedQueriesFollowRebuilds(t *testing.T) {
	p := newTestPipeline(t, t.TempDir(), nil, 50, 5)
	r := cache.NewCachedRetriever(p, cache.NewQueryCache(10, 0))
	ctx := context.Background()

	_, err := p.BuildTexts(ctx, []SourceText{{ID: "v1", Text: "first version"}}, nil)
	require.NoError(t, err)
	first, err := r.Query(ctx, "version", 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", first[0].Source)

	_, err = p.BuildTexts(ctx, []SourceText{{ID: "v2", Text: "second version"}}, nil)
	require.NoError(t, err)
	second, err := r.Query(ctx, "version", 1)
	require.NoError(t, err)
	assert.Equal(t, "v2", second[0].Source)
}

func TestPipeline_ExtractorErrorsOtherThanExtractionAbort(t *testing.T) {
	boom := errors.New("disk on fire")
	ch, _ := chunker.NewWordChunker(10, 2)
	emb, _ := embedding.NewLocalProvider(32, "")
	p := NewPipeline("cv", t.TempDir(), PipelineDeps{
		Extractor: extractorFunc(func(string) (string, error) { return "", boom }),
		Chunker:   ch,
		Embedder:  emb,
	}, nil)

	_, err := p.Build(context.Background(), []string{"a.txt"}, nil)
	assert.ErrorIs(t, err, boom)
}

type extractorFunc func(string) (string, error)

func (f extractorFunc) Extract(path string) (string, error) { return f(path) }

func TestPipeline_SaveFailureDropsUnsavedContents(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	cv := write(t, dir, "cv.txt", "Experienced in Python and TensorFlow")

	p := newTestPipeline(t, dataDir, nil, 500, 50)
	_, err := p.Build(context.Background(), []string{cv}, nil)
	require.NoError(t, err)
	gen := p.Generation()

	// A regular file where the data dir should be makes every save fail.
	require.NoError(t, os.RemoveAll(dataDir))
	require.NoError(t, os.WriteFile(dataDir, []byte("not a dir"), 0644))

	other := write(t, dir, "other.txt", "Managed a team of Rust developers")
	_, err = p.Build(context.Background(), []string{other}, nil)
	require.Error(t, err)
	assert.Equal(t, StateEmpty, p.State())
	assert.Greater(t, p.Generation(), gen)

	_, err = p.Query(context.Background(), "Rust", 1)
	assert.Error(t, err)
}
