package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports, Options{}, nil)
	require.NoError(t, err)
	return server
}

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns results", func(t *testing.T) {
		corpus := &mockCorpusService{results: []domain.QueryResult{
			{Text: "Experienced in Python", Score: 0.8, Source: "cv.txt"},
		}}
		server := newTestServer(t, &Ports{Corpus: corpus})

		_, out, err := server.handleQuery(ctx, nil, QueryInput{Corpus: "interview", Query: "python", K: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "cv.txt", out.Results[0].Source)
		assert.Equal(t, "interview", corpus.lastCorpus)
		assert.Equal(t, 2, corpus.lastK)
	})

	t.Run("defaults corpus and k", func(t *testing.T) {
		corpus := &mockCorpusService{}
		server := newTestServer(t, &Ports{Corpus: corpus})

		_, out, err := server.handleQuery(ctx, nil, QueryInput{Query: "python"})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Count)
		assert.Equal(t, "cv", corpus.lastCorpus)
		assert.Equal(t, 5, corpus.lastK)
	})

	t.Run("propagates errors", func(t *testing.T) {
		server := newTestServer(t, &Ports{Corpus: &mockCorpusService{err: domain.ErrNoIndex}})

		_, _, err := server.handleQuery(ctx, nil, QueryInput{Query: "python"})
		assert.ErrorIs(t, err, domain.ErrNoIndex)
	})
}

func TestServer_handleSummary(t *testing.T) {
	corpus := &mockCorpusService{summary: &domain.Summary{Corpus: "cv", TotalChunks: 3}}
	server := newTestServer(t, &Ports{Corpus: corpus})

	_, out, err := server.handleSummary(context.Background(), nil, SummaryInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalChunks)
	assert.Equal(t, "cv", corpus.lastCorpus)
}

func TestServer_handleRecommend(t *testing.T) {
	jobs := &mockJobService{recs: []domain.Recommendation{
		{Job: domain.JobRecord{Title: "Data Scientist"}, CompositeScore: 1.1},
	}}
	server := newTestServer(t, &Ports{Corpus: &mockCorpusService{}, Jobs: jobs})

	_, out, err := server.handleRecommend(context.Background(), nil, RecommendInput{Profile: "analyst"})
	require.NoError(t, err)
	require.Len(t, out.Recommendations, 1)
	assert.Equal(t, "Data Scientist", out.Recommendations[0].Job.Title)
	assert.Equal(t, 5, jobs.lastN)

	jobs.err = domain.ErrTransient
	_, _, err = server.handleRecommend(context.Background(), nil, RecommendInput{Profile: "analyst", N: 2})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 2, jobs.lastN)
}

func TestServer_handleInsights(t *testing.T) {
	jobs := &mockJobService{insights: &domain.MarketInsights{AverageSalary: 120000, MarketDemand: "High"}}
	server := newTestServer(t, &Ports{Corpus: &mockCorpusService{}, Jobs: jobs})

	_, out, err := server.handleInsights(context.Background(), nil, InsightsInput{Profile: "engineer"})
	require.NoError(t, err)
	assert.Equal(t, 120000.0, out.AverageSalary)
	assert.Equal(t, "High", out.MarketDemand)
}

func TestServer_handleQuestions(t *testing.T) {
	questions := &mockQuestionService{questions: map[string][]string{"technical": {"What is a goroutine?"}}}
	server := newTestServer(t, &Ports{Corpus: &mockCorpusService{}, Questions: questions})

	_, out, err := server.handleQuestions(context.Background(), nil, QuestionsInput{
		JobDescription: "Go developer",
		Types:          []string{"technical"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"What is a goroutine?"}, out.Questions["technical"])
	assert.Equal(t, []string{"technical"}, questions.lastTypes)
}
