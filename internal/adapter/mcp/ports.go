// Package mcp exposes the corpus and job services as Model Context Protocol
// tools for the agent layer.
package mcp

import (
	"context"
	"errors"

	"careerpilot/internal/domain"
)

// ErrMissingCorpusService is returned when the corpus service is not provided.
var ErrMissingCorpusService = errors.New("mcp: corpus service is required")

// CorpusService answers queries against named corpora.
type CorpusService interface {
	Query(ctx context.Context, corpus, text string, k int) ([]domain.QueryResult, error)
	Summarize(ctx context.Context, corpus string) (*domain.Summary, error)
}

// JobService ranks jobs against a profile.
type JobService interface {
	Recommend(ctx context.Context, profile string, skills []string, n int) ([]domain.Recommendation, error)
	MarketInsights(ctx context.Context, profile string) (*domain.MarketInsights, error)
}

// QuestionService finds interview questions for a job description.
type QuestionService interface {
	Find(ctx context.Context, jobDescription string, types []string) (map[string][]string, error)
}

// Ports aggregates the services the server exposes. Jobs and Questions are
// optional; their tools are only registered when set.
type Ports struct {
	Corpus    CorpusService
	Jobs      JobService
	Questions QuestionService
}

func (p *Ports) Validate() error {
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	return nil
}
