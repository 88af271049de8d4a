package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"careerpilot/internal/adapter/cache"
	"careerpilot/internal/domain"
)

// Well-known corpus names.
const (
	CVCorpus        = "cv"
	InterviewCorpus = "interview"
)

// Corpora opens one Pipeline per corpus name on first use and serves
// queries through a per-corpus cache.
type Corpora struct {
	open     func(name string) *Pipeline
	newCache func() *cache.QueryCache

	mu      sync.Mutex
	entries map[string]*corpusEntry
}

type corpusEntry struct {
	pipeline *Pipeline
	cached   *cache.CachedRetriever
}

// NewCorpora creates a registry. newCache may be nil to disable caching.
func NewCorpora(open func(name string) *Pipeline, newCache func() *cache.QueryCache) *Corpora {
	return &Corpora{
		open:     open,
		newCache: newCache,
		entries:  make(map[string]*corpusEntry),
	}
}

// ValidateCorpusName rejects names that are empty, would escape the data
// directory or collide with the job index files.
func ValidateCorpusName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCorpus, name)
	}
	if name == jobsCorpus {
		return fmt.Errorf("%w: %q is reserved for the job index", domain.ErrInvalidCorpus, name)
	}
	return nil
}

func (c *Corpora) entry(name string) (*corpusEntry, error) {
	if err := ValidateCorpusName(name); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[name]; ok {
		return e, nil
	}
	e := &corpusEntry{pipeline: c.open(name)}
	if c.newCache != nil {
		e.cached = cache.NewCachedRetriever(e.pipeline, c.newCache())
	}
	c.entries[name] = e
	return e, nil
}

// Pipeline returns the pipeline for name, opening it if needed.
func (c *Corpora) Pipeline(name string) (*Pipeline, error) {
	e, err := c.entry(name)
	if err != nil {
		return nil, err
	}
	return e.pipeline, nil
}

// Query runs a similarity query against the named corpus.
func (c *Corpora) Query(ctx context.Context, name, text string, k int) ([]domain.QueryResult, error) {
	e, err := c.entry(name)
	if err != nil {
		return nil, err
	}
	if e.cached != nil {
		return e.cached.Query(ctx, text, k)
	}
	return e.pipeline.Query(ctx, text, k)
}

func (c *Corpora) Summarize(ctx context.Context, name string) (*domain.Summary, error) {
	e, err := c.entry(name)
	if err != nil {
		return nil, err
	}
	return e.pipeline.Summarize(ctx)
}

// Open lists the corpora opened so far.
func (c *Corpora) Open() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Retriever binds the registry to one corpus.
func (c *Corpora) Retriever(name string) *CorpusRetriever {
	return &CorpusRetriever{corpora: c, name: name}
}

// CorpusRetriever is a port.Retriever over one named corpus.
type CorpusRetriever struct {
	corpora *Corpora
	name    string
}

func (r *CorpusRetriever) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	return r.corpora.Query(ctx, r.name, text, k)
}
