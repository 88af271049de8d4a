package mcp

import (
	"context"

	"careerpilot/internal/domain"
)

type mockCorpusService struct {
	results    []domain.QueryResult
	summary    *domain.Summary
	err        error
	lastCorpus string
	lastK      int
}

func (m *mockCorpusService) Query(_ context.Context, corpus, _ string, k int) ([]domain.QueryResult, error) {
	m.lastCorpus, m.lastK = corpus, k
	return m.results, m.err
}

func (m *mockCorpusService) Summarize(_ context.Context, corpus string) (*domain.Summary, error) {
	m.lastCorpus = corpus
	return m.summary, m.err
}

type mockJobService struct {
	recs     []domain.Recommendation
	insights *domain.MarketInsights
	err      error
	lastN    int
}

func (m *mockJobService) Recommend(_ context.Context, _ string, _ []string, n int) ([]domain.Recommendation, error) {
	m.lastN = n
	return m.recs, m.err
}

func (m *mockJobService) MarketInsights(context.Context, string) (*domain.MarketInsights, error) {
	return m.insights, m.err
}

type mockQuestionService struct {
	questions map[string][]string
	err       error
	lastTypes []string
}

func (m *mockQuestionService) Find(_ context.Context, _ string, types []string) (map[string][]string, error) {
	m.lastTypes = types
	return m.questions, m.err
}
