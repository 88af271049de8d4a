package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"careerpilot/internal/domain"
)

type QueryInput struct {
	Corpus string `json:"corpus,omitempty" jsonschema:"corpus to search, cv or interview (default cv)"`
	Query  string `json:"query" jsonschema:"the text to find similar passages for"`
	K      int    `json:"k,omitempty" jsonschema:"maximum number of passages to return"`
}

type QueryOutput struct {
	Results []domain.QueryResult `json:"results"`
	Count   int                  `json:"count"`
}

type SummaryInput struct {
	Corpus string `json:"corpus,omitempty" jsonschema:"corpus to summarize (default cv)"`
}

type RecommendInput struct {
	Profile string   `json:"profile" jsonschema:"free-text description of the candidate"`
	Skills  []string `json:"skills,omitempty" jsonschema:"the candidate's skills"`
	N       int      `json:"n,omitempty" jsonschema:"number of recommendations"`
}

type RecommendOutput struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
}

type InsightsInput struct {
	Profile string `json:"profile" jsonschema:"free-text description of the candidate"`
}

type QuestionsInput struct {
	JobDescription string   `json:"job_description" jsonschema:"the job description to prepare for"`
	Types          []string `json:"types,omitempty" jsonschema:"question categories (default technical, behavioral, situational, company_culture)"`
}

type QuestionsOutput struct {
	Questions map[string][]string `json:"questions"`
}

const defaultCorpus = "cv"

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_corpus",
		Description: "Find the passages of an indexed corpus most similar to a query",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_corpus",
		Description: "Describe an indexed corpus: chunk and word counts and CV sections found",
	}, s.handleSummary)

	if s.ports.Jobs != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "recommend_jobs",
			Description: "Rank job listings against a candidate profile and skill list",
		}, s.handleRecommend)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "market_insights",
			Description: "Summarize salaries, locations and demand for the jobs matching a profile",
		}, s.handleInsights)
	}

	if s.ports.Questions != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "interview_questions",
			Description: "Collect interview questions relevant to a job description from the interview corpus",
		}, s.handleQuestions)
	}
}

func (s *Server) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	corpus := input.Corpus
	if corpus == "" {
		corpus = defaultCorpus
	}
	k := input.K
	if k <= 0 {
		k = s.defaultK
	}

	results, err := s.ports.Corpus.Query(ctx, corpus, input.Query, k)
	if err != nil {
		s.log.Warn("query_corpus failed", zap.String("corpus", corpus), zap.Error(err))
		return nil, QueryOutput{}, err
	}
	return nil, QueryOutput{Results: results, Count: len(results)}, nil
}

func (s *Server) handleSummary(ctx context.Context, _ *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, domain.Summary, error) {
	corpus := input.Corpus
	if corpus == "" {
		corpus = defaultCorpus
	}

	summary, err := s.ports.Corpus.Summarize(ctx, corpus)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return nil, *summary, nil
}

func (s *Server) handleRecommend(ctx context.Context, _ *mcp.CallToolRequest, input RecommendInput) (*mcp.CallToolResult, RecommendOutput, error) {
	n := input.N
	if n <= 0 {
		n = s.defaultN
	}

	recs, err := s.ports.Jobs.Recommend(ctx, input.Profile, input.Skills, n)
	if err != nil {
		s.log.Warn("recommend_jobs failed", zap.Error(err))
		return nil, RecommendOutput{}, err
	}
	return nil, RecommendOutput{Recommendations: recs}, nil
}

func (s *Server) handleInsights(ctx context.Context, _ *mcp.CallToolRequest, input InsightsInput) (*mcp.CallToolResult, domain.MarketInsights, error) {
	insights, err := s.ports.Jobs.MarketInsights(ctx, input.Profile)
	if err != nil {
		return nil, domain.MarketInsights{}, err
	}
	return nil, *insights, nil
}

func (s *Server) handleQuestions(ctx context.Context, _ *mcp.CallToolRequest, input QuestionsInput) (*mcp.CallToolResult, QuestionsOutput, error) {
	questions, err := s.ports.Questions.Find(ctx, input.JobDescription, input.Types)
	if err != nil {
		return nil, QuestionsOutput{}, err
	}
	return nil, QuestionsOutput{Questions: questions}, nil
}
