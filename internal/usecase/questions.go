package usecase

import (
	"context"
	"strings"

	"careerpilot/internal/port"
)

// DefaultQuestionTypes are the interview question categories asked for
// when none are given.
var DefaultQuestionTypes = []string{"technical", "behavioral", "situational", "company_culture"}

const (
	questionsPerResult = 2
	questionsPerType   = 5
	questionResults    = 3
	jobPrefixLen       = 100
)

// QuestionFinder pulls ready-made interview questions out of an interview
// knowledge corpus.
type QuestionFinder struct {
	corpus port.Retriever
}

func NewQuestionFinder(corpus port.Retriever) *QuestionFinder {
	return &QuestionFinder{corpus: corpus}
}

// Find returns, per question type, up to five question sentences from the
// chunks most similar to the type and the start of jobDescription.
func (f *QuestionFinder) Find(ctx context.Context, jobDescription string, types []string) (map[string][]string, error) {
	if len(types) == 0 {
		types = DefaultQuestionTypes
	}

	prefix := jobDescription
	if r := []rune(prefix); len(r) > jobPrefixLen {
		prefix = string(r[:jobPrefixLen])
	}

	out := make(map[string][]string, len(types))
	for _, qt := range types {
		results, err := f.corpus.Query(ctx, qt+" interview questions for "+prefix, questionResults)
		if err != nil {
			return nil, err
		}

		questions := []string{}
		for _, r := range results {
			questions = append(questions, head(questionSentences(r.Text), questionsPerResult)...)
		}
		out[qt] = head(questions, questionsPerType)
	}
	return out, nil
}

// questionSentences splits text on periods and keeps the pieces that
// contain a question mark.
func questionSentences(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ".") {
		if strings.Contains(s, "?") {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
