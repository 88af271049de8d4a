package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"careerpilot/internal/domain"
)

const insightSample = 10

var salaryNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([kK])?`)

// ParseSalary extracts the midpoint of a free-text salary range such as
// "$100,000 - $180,000" or "$90k-$120k". Text without a dollar sign or
// with fewer than two numbers does not parse.
func ParseSalary(text string) (float64, bool) {
	if !strings.Contains(text, "$") {
		return 0, false
	}

	matches := salaryNumber.FindAllStringSubmatch(strings.ReplaceAll(text, ",", ""), 2)
	if len(matches) < 2 {
		return 0, false
	}

	var sum float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		if m[2] != "" {
			v *= 1000
		}
		sum += v
	}
	return sum / 2, true
}

// MarketInsights summarizes the top recommendations for profile: mean
// salary, salary span, leading locations, demand and high-growth roles.
func (e *RecommendEngine) MarketInsights(ctx context.Context, profile string) (*domain.MarketInsights, error) {
	recs, err := e.Recommend(ctx, profile, nil, insightSample)
	if err != nil {
		return nil, err
	}
	return summarizeMarket(recs), nil
}

func summarizeMarket(recs []domain.Recommendation) *domain.MarketInsights {
	insights := &domain.MarketInsights{
		SalaryRange:  "N/A",
		TopLocations: []string{},
		MarketDemand: "Medium",
	}

	var salaries []float64
	seen := make(map[string]bool)
	for _, rec := range recs {
		if s, ok := ParseSalary(rec.Job.SalaryRange); ok {
			salaries = append(salaries, s)
		}
		if loc := rec.Job.Location; loc != "" && !seen[loc] && len(insights.TopLocations) < 3 {
			seen[loc] = true
			insights.TopLocations = append(insights.TopLocations, loc)
		}
		if strings.Contains(strings.ToLower(rec.Job.GrowthPotential), "high") {
			insights.GrowthOpportunities++
		}
	}

	if len(salaries) > 0 {
		lo, hi, sum := salaries[0], salaries[0], 0.0
		for _, s := range salaries {
			sum += s
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
		}
		insights.AverageSalary = sum / float64(len(salaries))
		insights.SalaryRange = fmt.Sprintf("$%s - $%s", thousands(lo), thousands(hi))
	}

	if len(recs) > 5 {
		insights.MarketDemand = "High"
	}
	return insights
}

// thousands formats v rounded to a whole number with comma separators.
func thousands(v float64) string {
	s := strconv.FormatInt(int64(v+0.5), 10)
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
