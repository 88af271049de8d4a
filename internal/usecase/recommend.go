package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"careerpilot/config"
	"careerpilot/internal/adapter/retriever"
	"careerpilot/internal/adapter/store"
	"careerpilot/internal/domain"
	"careerpilot/internal/port"
)

const (
	jobsCorpus = "jobs"
	// skillBonus is added to the semantic score per matched skill.
	skillBonus = 0.1
)

// RecommendEngine ranks a job collection against a free-text profile and
// a skill list. Each job is embedded once as a composite text block and
// the job index is persisted next to the collection.
type RecommendEngine struct {
	jobsPath    string
	dataDir     string
	embedder    port.EmbeddingProvider
	index       *store.FlatIndex
	texts       *store.ChunkStore
	retriever   *retriever.SemanticRetriever
	minSkillLen int
	log         *zap.Logger

	mu   sync.RWMutex
	jobs []domain.JobRecord
}

func NewRecommendEngine(dataDir, jobsPath string, embedder port.EmbeddingProvider, minSkillLen int, log *zap.Logger) *RecommendEngine {
	if log == nil {
		log = zap.NewNop()
	}
	index := store.NewFlatIndex(0)
	texts := store.NewChunkStore()
	return &RecommendEngine{
		jobsPath:    jobsPath,
		dataDir:     dataDir,
		embedder:    embedder,
		index:       index,
		texts:       texts,
		retriever:   retriever.NewSemanticRetriever(index, embedder, texts),
		minSkillLen: minSkillLen,
		log:         log.With(zap.String("corpus", jobsCorpus)),
	}
}

// Jobs returns the loaded job collection.
func (e *RecommendEngine) Jobs() []domain.JobRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.JobRecord, len(e.jobs))
	copy(out, e.jobs)
	return out
}

// Load reads the job collection and makes the job index ready. It is a
// no-op once loaded.
func (e *RecommendEngine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(ctx)
}

func (e *RecommendEngine) loadLocked(ctx context.Context) error {
	if e.jobs != nil {
		return nil
	}

	jobs, err := e.loadJobs()
	if err != nil {
		return err
	}

	if err := e.loadOrBuildIndex(ctx, jobs); err != nil {
		return err
	}
	e.jobs = jobs
	return nil
}

// loadJobs reads the jobs file. A missing file is created from the seed
// set; an unreadable one is logged and replaced by the seed set in memory.
func (e *RecommendEngine) loadJobs() ([]domain.JobRecord, error) {
	data, err := os.ReadFile(e.jobsPath)
	if errors.Is(err, os.ErrNotExist) {
		jobs := SeedJobs()
		if err := e.saveJobs(jobs); err != nil {
			return nil, err
		}
		e.log.Info("created seed job collection", zap.String("path", e.jobsPath), zap.Int("jobs", len(jobs)))
		return jobs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}

	var jobs []domain.JobRecord
	if err := json.Unmarshal(data, &jobs); err != nil || len(jobs) == 0 {
		e.log.Warn("unreadable job collection, using seed jobs", zap.String("path", e.jobsPath), zap.Error(err))
		return SeedJobs(), nil
	}

	e.log.Debug("loaded job collection", zap.Int("jobs", len(jobs)))
	return jobs, nil
}

func (e *RecommendEngine) saveJobs(jobs []domain.JobRecord) error {
	if err := os.MkdirAll(filepath.Dir(e.jobsPath), 0755); err != nil {
		return fmt.Errorf("failed to create jobs dir: %w", err)
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.jobsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write jobs: %w", err)
	}
	return nil
}

// JobText renders the composite text block a job is embedded as.
func JobText(job domain.JobRecord) string {
	var sb strings.Builder
	sb.WriteString("Title: " + job.Title + "\n")
	sb.WriteString("Company: " + job.Company + "\n")
	sb.WriteString("Description: " + job.Description + "\n")
	sb.WriteString("Requirements: " + strings.Join(job.Requirements, " ") + "\n")
	sb.WriteString("Skills: " + strings.Join(job.Skills, " ") + "\n")
	sb.WriteString("Industry: " + job.Industry + "\n")
	sb.WriteString("Experience Level: " + job.ExperienceLevel)
	return sb.String()
}

func (e *RecommendEngine) loadOrBuildIndex(ctx context.Context, jobs []domain.JobRecord) error {
	texts := make([]string, len(jobs))
	chunks := make([]domain.Chunk, len(jobs))
	for i, job := range jobs {
		texts[i] = JobText(job)
		chunks[i] = domain.Chunk{Text: texts[i], SourceID: "job:" + strconv.Itoa(job.ID), Position: i}
	}
	want := domain.IndexManifest{
		Corpus:      jobsCorpus,
		Model:       e.embedder.ModelName(),
		Fingerprint: store.ComputeFingerprint(texts...),
	}

	vecPath, docPath := config.IndexPaths(e.dataDir, jobsCorpus)
	if err := e.loadIndex(vecPath, docPath, want, len(jobs)); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		e.log.Info("rebuilding job index", zap.Error(err))
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed jobs: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: embedded %d of %d jobs", domain.ErrFatal, len(vectors), len(texts))
	}
	for i := range vectors {
		vectors[i] = store.Normalize(vectors[i])
	}

	e.index.Reset(0)
	if err := e.index.Add(vectors); err != nil {
		return fmt.Errorf("failed to index jobs: %w", err)
	}
	e.texts.Reset()
	e.texts.Append(chunks...)

	if err := config.EnsureDataDir(e.dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := e.index.Save(vecPath); err != nil {
		return fmt.Errorf("failed to save job index: %w", err)
	}
	want.Dimension = e.index.Dimension()
	if err := e.texts.Save(docPath, want); err != nil {
		return fmt.Errorf("failed to save job index: %w", err)
	}

	e.log.Info("built job index", zap.Int("jobs", len(jobs)))
	return nil
}

func (e *RecommendEngine) loadIndex(vecPath, docPath string, want domain.IndexManifest, count int) error {
	manifest, err := e.texts.Load(docPath)
	if err != nil {
		return err
	}
	if manifest.Corpus != jobsCorpus || manifest.Fingerprint == "" {
		return fmt.Errorf("%w: %s holds corpus %q, not a job index", store.ErrStaleIndex, docPath, manifest.Corpus)
	}
	if err := store.CheckManifest(manifest, want); err != nil {
		return err
	}
	if err := e.index.Load(vecPath); err != nil {
		return err
	}
	if e.index.Count() != count || e.texts.Len() != count {
		return fmt.Errorf("%w: job index has %d rows, collection has %d jobs", store.ErrStaleIndex, e.index.Count(), count)
	}
	return nil
}

func (e *RecommendEngine) ensureLoaded(ctx context.Context) error {
	e.mu.RLock()
	if e.jobs != nil {
		return nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	err := e.loadLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.mu.RLock()
	return nil
}

// Recommend returns up to n jobs for profile. The 2n semantically closest
// jobs are re-ranked by semantic score plus a bonus per matched skill.
func (e *RecommendEngine) Recommend(ctx context.Context, profile string, skills []string, n int) ([]domain.Recommendation, error) {
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	defer e.mu.RUnlock()

	if n <= 0 {
		return []domain.Recommendation{}, nil
	}

	if n > len(e.jobs) {
		n = len(e.jobs)
	}
	k := 2 * n
	if k > len(e.jobs) {
		k = len(e.jobs)
	}
	hits, err := e.retriever.SearchHits(ctx, profile, k)
	if err != nil {
		return nil, err
	}

	recs := make([]domain.Recommendation, 0, len(hits))
	for _, hit := range hits {
		if hit.Row < 0 || hit.Row >= len(e.jobs) {
			return nil, fmt.Errorf("%w: job row %d of %d", domain.ErrIndexOutOfRange, hit.Row, len(e.jobs))
		}
		job := e.jobs[hit.Row]

		skillScore, matched := MatchSkills(skills, job.Skills, e.minSkillLen)
		ats := "Medium"
		if hit.Score > 0.7 {
			ats = "High"
		}
		recs = append(recs, domain.Recommendation{
			Job:              job,
			SemanticScore:    hit.Score,
			SkillMatchScore:  skillScore,
			MatchedSkills:    matched,
			CompositeScore:   hit.Score + skillBonus*float64(len(matched)),
			Reasoning:        explain(profile, job, skillScore, matched),
			ATSCompatibility: ats,
		})
	}

	rankRecommendations(recs)

	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

// rankRecommendations sorts by composite score; ties keep semantic rank.
func rankRecommendations(recs []domain.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CompositeScore > recs[j].CompositeScore
	})
}
