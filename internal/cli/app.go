package cli

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"careerpilot/config"
	"careerpilot/internal/adapter/cache"
	"careerpilot/internal/adapter/chunker"
	"careerpilot/internal/adapter/embedding"
	"careerpilot/internal/adapter/extract"
	"careerpilot/internal/adapter/fs"
	"careerpilot/internal/port"
	"careerpilot/internal/usecase"
)

// app wires the configured adapters into the use cases.
type app struct {
	cfg      *config.Config
	dataDir  string
	embedder port.EmbeddingProvider
	corpora  *usecase.Corpora
	jobs     *usecase.RecommendEngine
	log      *zap.Logger
}

func newApp(cfg *config.Config, root string, log *zap.Logger) (*app, error) {
	if log == nil {
		log = zap.NewNop()
	}

	chk, err := chunker.New(cfg.Chunking.Mode, cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	if env := cfg.Extract.UniDocLicenseEnv; env != "" {
		if key := os.Getenv(env); key == "" {
			log.Debug("no UniDoc license set, pdf/docx/xlsx sources will be skipped", zap.String("env", env))
		} else if err := extract.SetLicense(key); err != nil {
			log.Warn("UniDoc license rejected, pdf/docx/xlsx sources will be skipped", zap.Error(err))
		}
	}

	dataDir := cfg.ResolveDataDir(root)
	registry := extract.NewRegistry()
	walker := fs.NewWalker([]string{".git/**", ".careerpilot/**", "**/node_modules/**"}, registry.Supports)

	open := func(name string) *usecase.Pipeline {
		return usecase.NewPipeline(name, dataDir, usecase.PipelineDeps{
			Extractor: registry,
			Expander:  walker,
			Chunker:   chk,
			Embedder:  embedder,
			BatchSize: cfg.Embedding.BatchSize,
		}, log)
	}
	var newCache func() *cache.QueryCache
	if cfg.Retrieve.CacheSize > 0 {
		newCache = func() *cache.QueryCache {
			return cache.NewQueryCache(cfg.Retrieve.CacheSize, cfg.Retrieve.CacheTTL())
		}
	}

	log.Debug("configured",
		zap.String("data_dir", dataDir),
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", embedder.ModelName()),
		zap.String("chunking", cfg.Chunking.Mode))

	return &app{
		cfg:      cfg,
		dataDir:  dataDir,
		embedder: embedder,
		corpora:  usecase.NewCorpora(open, newCache),
		jobs:     usecase.NewRecommendEngine(dataDir, cfg.JobsPath(dataDir), embedder, cfg.Recommend.MinSkillLen, log),
		log:      log,
	}, nil
}

func (a *app) questions() *usecase.QuestionFinder {
	return usecase.NewQuestionFinder(a.corpora.Retriever(usecase.InterviewCorpus))
}

func currentApp() (*app, error) {
	return newApp(GetConfig(), GetRootDir(), log)
}
