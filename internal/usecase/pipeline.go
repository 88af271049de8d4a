package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"careerpilot/config"
	"careerpilot/internal/adapter/retriever"
	"careerpilot/internal/adapter/store"
	"careerpilot/internal/domain"
	"careerpilot/internal/port"
)

// State is the lifecycle state of a corpus.
type State int

const (
	StateEmpty State = iota
	StateBuilt
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// ProgressFunc reports embedding progress during a build.
type ProgressFunc func(done, total int)

// SourceText is the raw text of one source document.
type SourceText struct {
	ID   string
	Text string
}

// BuildResult describes a completed build.
type BuildResult struct {
	Sources []string // sources that produced at least one chunk
	Skipped []string // sources that failed extraction
	Chunks  int
}

// PipelineDeps are the collaborators of a Pipeline.
type PipelineDeps struct {
	Extractor port.TextExtractor
	Expander  port.SourceExpander // optional; sources are used verbatim without it
	Chunker   port.TextChunker
	Embedder  port.EmbeddingProvider
	Index     port.VectorIndex    // defaults to a FlatIndex
	Chunks    port.DocumentStore  // defaults to a ChunkStore
	BatchSize int
}

// Pipeline is the index of one named corpus: chunking, embedding, the
// vector index with its chunk store, and their persistence under dataDir.
// Queries share a read lock and keep running while a build embeds; the
// build then swaps the new contents in under the write lock.
type Pipeline struct {
	corpus    string
	dataDir   string
	extractor port.TextExtractor
	expander  port.SourceExpander
	chunker   port.TextChunker
	embedder  port.EmbeddingProvider
	index     port.VectorIndex
	chunks    port.DocumentStore
	retriever *retriever.SemanticRetriever
	batchSize int
	log       *zap.Logger

	buildMu sync.Mutex // serializes builds; mu guards the swap
	mu      sync.RWMutex
	state   State
	gen     uint64
}

func NewPipeline(corpus, dataDir string, deps PipelineDeps, log *zap.Logger) *Pipeline {
	if deps.Index == nil {
		deps.Index = store.NewFlatIndex(0)
	}
	if deps.Chunks == nil {
		deps.Chunks = store.NewChunkStore()
	}
	if deps.BatchSize <= 0 {
		deps.BatchSize = 64
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline{
		corpus:    corpus,
		dataDir:   dataDir,
		extractor: deps.Extractor,
		expander:  deps.Expander,
		chunker:   deps.Chunker,
		embedder:  deps.Embedder,
		index:     deps.Index,
		chunks:    deps.Chunks,
		retriever: retriever.NewSemanticRetriever(deps.Index, deps.Embedder, deps.Chunks),
		batchSize: deps.BatchSize,
		log:       log.With(zap.String("corpus", corpus)),
	}
}

func (p *Pipeline) Corpus() string {
	return p.corpus
}

func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Generation changes every time the corpus contents are replaced.
func (p *Pipeline) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}

func (p *Pipeline) paths() (string, string) {
	return config.IndexPaths(p.dataDir, p.corpus)
}

// Build extracts, chunks and embeds sources, replaces the corpus contents
// and persists them. Sources that fail extraction are logged and skipped.
func (p *Pipeline) Build(ctx context.Context, sources []string, progress ProgressFunc) (*BuildResult, error) {
	files := sources
	if p.expander != nil {
		expanded, err := p.expander.Expand(sources)
		if err != nil {
			return nil, fmt.Errorf("failed to expand sources: %w", err)
		}
		files = expanded
	}

	result := &BuildResult{}
	var texts []SourceText
	for _, path := range files {
		text, err := p.extractor.Extract(path)
		if err != nil {
			if errors.Is(err, domain.ErrExtraction) {
				p.log.Warn("skipping source", zap.String("path", path), zap.Error(err))
				result.Skipped = append(result.Skipped, path)
				continue
			}
			return nil, err
		}
		texts = append(texts, SourceText{ID: path, Text: text})
	}

	built, err := p.BuildTexts(ctx, texts, progress)
	if err != nil {
		return nil, err
	}
	result.Sources = built.Sources
	result.Chunks = built.Chunks
	return result, nil
}

// BuildTexts indexes already-extracted documents. A build whose contents
// cannot be persisted leaves the corpus empty rather than serving them.
func (p *Pipeline) BuildTexts(ctx context.Context, docs []SourceText, progress ProgressFunc) (*BuildResult, error) {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	result := &BuildResult{}
	var chunks []domain.Chunk
	for _, doc := range docs {
		pieces := p.chunker.Chunk(doc.Text)
		if len(pieces) == 0 {
			p.log.Warn("source produced no chunks", zap.String("source", doc.ID))
			continue
		}
		for i, text := range pieces {
			chunks = append(chunks, domain.Chunk{Text: text, SourceID: doc.ID, Position: i})
		}
		result.Sources = append(result.Sources, doc.ID)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: corpus %s", domain.ErrNoDocuments, p.corpus)
	}

	vectors, err := p.embedChunks(ctx, chunks, progress)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.index.Reset(0)
	if err := p.index.Add(vectors); err != nil {
		p.chunks.Reset()
		p.state = StateEmpty
		return nil, fmt.Errorf("failed to index vectors: %w", err)
	}
	p.chunks.Reset()
	p.chunks.Append(chunks...)
	p.state = StateBuilt
	p.gen++

	if err := p.save(); err != nil {
		// Drop the unsaved contents; the next query reloads what is on disk.
		p.index.Reset(0)
		p.chunks.Reset()
		p.state = StateEmpty
		p.gen++
		return nil, err
	}

	result.Chunks = len(chunks)
	p.log.Info("corpus built",
		zap.Int("sources", len(result.Sources)),
		zap.Int("chunks", result.Chunks),
		zap.String("model", p.embedder.ModelName()))
	return result, nil
}

func (p *Pipeline) embedChunks(ctx context.Context, chunks []domain.Chunk, progress ProgressFunc) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for i := 0; i < len(chunks); i += p.batchSize {
		end := i + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, end-i)
		for j := range texts {
			texts[j] = chunks[i+j].Text
		}

		batch, err := p.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: embedded %d of %d chunks", domain.ErrFatal, len(batch), len(texts))
		}
		for _, v := range batch {
			vectors = append(vectors, store.Normalize(v))
		}

		if progress != nil {
			progress(end, len(chunks))
		}
	}
	return vectors, nil
}

// save persists the index and chunk store. Callers hold the write lock.
func (p *Pipeline) save() error {
	if err := config.EnsureDataDir(p.dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	vecPath, docPath := p.paths()
	if err := p.index.Save(vecPath); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	manifest := domain.IndexManifest{
		Corpus:    p.corpus,
		Model:     p.embedder.ModelName(),
		Dimension: p.index.Dimension(),
	}
	if err := p.chunks.Save(docPath, manifest); err != nil {
		return fmt.Errorf("failed to save chunks: %w", err)
	}
	return nil
}

// Load restores the persisted corpus. It is a no-op once the corpus is
// built or loaded.
func (p *Pipeline) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked()
}

func (p *Pipeline) loadLocked() error {
	if p.state != StateEmpty {
		return nil
	}

	vecPath, docPath := p.paths()
	_, vecErr := os.Stat(vecPath)
	_, docErr := os.Stat(docPath)
	if os.IsNotExist(vecErr) && os.IsNotExist(docErr) {
		return fmt.Errorf("%w: corpus %s", domain.ErrNoIndex, p.corpus)
	}
	if vecErr != nil || docErr != nil {
		return fmt.Errorf("%w: corpus %s is missing one of %s, %s", domain.ErrCorruptIndex, p.corpus, vecPath, docPath)
	}

	manifest, err := p.chunks.Load(docPath)
	if err != nil {
		p.chunks.Reset()
		return fmt.Errorf("failed to load chunks: %w", err)
	}
	if err := store.CheckManifest(manifest, domain.IndexManifest{Model: p.embedder.ModelName()}); err != nil {
		p.chunks.Reset()
		return err
	}
	if err := p.index.Load(vecPath); err != nil {
		p.chunks.Reset()
		return fmt.Errorf("failed to load index: %w", err)
	}
	if p.index.Count() != p.chunks.Len() || p.index.Dimension() != manifest.Dimension {
		n, m := p.index.Count(), p.chunks.Len()
		p.index.Reset(0)
		p.chunks.Reset()
		return fmt.Errorf("%w: index has %d vectors, store has %d chunks", domain.ErrCorruptIndex, n, m)
	}

	p.state = StateLoaded
	p.gen++
	p.log.Debug("corpus loaded", zap.Int("chunks", manifest.Count), zap.String("model", manifest.Model))
	return nil
}

// ensureLoaded returns with the read lock held and the corpus built or loaded.
func (p *Pipeline) ensureLoaded() error {
	p.mu.RLock()
	if p.state != StateEmpty {
		return nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	err := p.loadLocked()
	p.mu.Unlock()
	if err != nil {
		return err
	}

	p.mu.RLock()
	return nil
}

// Query returns up to k chunks ordered by descending similarity to text.
// An empty corpus is loaded from disk first; ErrNoIndex means nothing
// was ever built.
func (p *Pipeline) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	if err := p.ensureLoaded(); err != nil {
		return nil, err
	}
	defer p.mu.RUnlock()

	return p.retriever.Search(ctx, text, k)
}

var summaryKeywords = []struct {
	section  string
	keywords []string
}{
	{"experience", []string{"experience", "work", "employment", "job", "position", "career"}},
	{"education", []string{"education", "degree", "university", "college", "school", "graduated"}},
	{"skills", []string{"skills", "technologies", "programming", "languages", "tools", "expertise"}},
	{"projects", []string{"project", "portfolio", "developed", "built", "created", "implemented"}},
}

// Summarize describes the corpus for display: chunk and word counts and a
// keyword-based count of chunks per CV section.
func (p *Pipeline) Summarize(ctx context.Context) (*domain.Summary, error) {
	if err := p.ensureLoaded(); err != nil {
		return nil, err
	}
	chunks := p.chunks.All()
	p.mu.RUnlock()

	summary := &domain.Summary{
		Corpus:      p.corpus,
		TotalChunks: len(chunks),
		Sections:    make(map[string]int, len(summaryKeywords)),
	}
	for _, s := range summaryKeywords {
		summary.Sections[s.section] = 0
	}

	for _, c := range chunks {
		summary.TotalWords += len(strings.Fields(c.Text))
		lower := strings.ToLower(c.Text)
		for _, s := range summaryKeywords {
			for _, kw := range s.keywords {
				if strings.Contains(lower, kw) {
					summary.Sections[s.section]++
					break
				}
			}
		}
	}
	if len(chunks) > 0 {
		summary.SampleText = chunks[0].Text
	}

	return summary, nil
}
