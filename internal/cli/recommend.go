package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	recommendProfile string
	recommendSkills  []string
	recommendN       int
	recommendJSON    bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank job listings against a profile",
	Long: `Rank the job collection by similarity to a free-text profile, with a bonus
for every listed skill the job asks for.

Examples:
  careerpilot recommend -p "software engineer moving into ML" -s python,tensorflow
  careerpilot recommend -p "data analyst" -n 3 --json`,
	RunE: runRecommend,
}

var (
	insightsProfile string
	insightsJSON    bool
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize the job market for a profile",
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVarP(&recommendProfile, "profile", "p", "", "candidate profile (required)")
	recommendCmd.Flags().StringSliceVarP(&recommendSkills, "skills", "s", nil, "comma separated skills")
	recommendCmd.Flags().IntVarP(&recommendN, "num", "n", 0, "number of recommendations (default from config)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output as JSON")
	recommendCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringVarP(&insightsProfile, "profile", "p", "", "candidate profile (required)")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "output as JSON")
	insightsCmd.MarkFlagRequired("profile")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}

	n := a.cfg.Recommend.NumRecommendations
	if recommendN > 0 {
		n = recommendN
	}

	recs, err := a.jobs.Recommend(cmd.Context(), recommendProfile, splitList(recommendSkills), n)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if recommendJSON {
		return printJSON(recs)
	}

	for i, r := range recs {
		fmt.Printf("--- [%d] %s at %s (score: %.2f) ---\n", i+1, r.Job.Title, r.Job.Company, r.CompositeScore)
		fmt.Printf("  Location:   %s\n", r.Job.Location)
		fmt.Printf("  Salary:     %s\n", r.Job.SalaryRange)
		fmt.Printf("  Similarity: %.2f  Skill match: %.0f%%  ATS: %s\n", r.SemanticScore, r.SkillMatchScore*100, r.ATSCompatibility)
		if len(r.MatchedSkills) > 0 {
			fmt.Printf("  Matched:    %s\n", strings.Join(r.MatchedSkills, ", "))
		}
		fmt.Printf("  %s\n\n", r.Reasoning)
	}
	return nil
}

func runInsights(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}

	insights, err := a.jobs.MarketInsights(cmd.Context(), insightsProfile)
	if err != nil {
		return fmt.Errorf("market insights failed: %w", err)
	}

	if insightsJSON {
		return printJSON(insights)
	}

	fmt.Printf("Average salary:       $%.0f\n", insights.AverageSalary)
	fmt.Printf("Salary range:         %s\n", insights.SalaryRange)
	fmt.Printf("Top locations:        %s\n", strings.Join(insights.TopLocations, "; "))
	fmt.Printf("Market demand:        %s\n", insights.MarketDemand)
	fmt.Printf("Growth opportunities: %d\n", insights.GrowthOpportunities)
	return nil
}
