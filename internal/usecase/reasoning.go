package usecase

import (
	"strings"

	"careerpilot/internal/domain"
)

// explain builds the short rationale shown with a recommendation.
func explain(profile string, job domain.JobRecord, skillScore float64, matched []string) string {
	var parts []string
	profile = strings.ToLower(profile)
	title := strings.ToLower(job.Title)

	if containsAny(profile, "ai", "machine learning") && containsAny(title, "ai", "ml", "data") {
		parts = append(parts, "Your interest in AI/ML aligns with this role's focus")
	}
	if containsAny(profile, "software", "development") && containsAny(title, "developer", "engineer") {
		parts = append(parts, "Your development background matches this technical role")
	}

	switch {
	case skillScore > 0.5:
		parts = append(parts, "Strong skill alignment: "+strings.Join(head(matched, 3), ", "))
	case skillScore > 0.2:
		parts = append(parts, "Some relevant skills: "+strings.Join(head(matched, 2), ", "))
	}

	if strings.Contains(strings.ToLower(job.GrowthPotential), "high") {
		parts = append(parts, "High growth potential in this field")
	}

	parts = append(parts, "Industry trend: "+job.IndustryTrend)

	return strings.Join(parts, ". ") + "."
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
