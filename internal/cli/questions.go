package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"careerpilot/internal/usecase"
)

var (
	questionsJD    string
	questionsTypes []string
	questionsJSON  bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Find interview questions for a job description",
	Long: `Collect question sentences from the interview corpus that relate to a job
description. Build the corpus first with 'careerpilot build --corpus interview'.`,
	RunE: runQuestions,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.Flags().StringVarP(&questionsJD, "job", "j", "", "job description (required)")
	questionsCmd.Flags().StringSliceVarP(&questionsTypes, "types", "t", nil, "question types (default technical,behavioral,situational,company_culture)")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "output as JSON")
	questionsCmd.MarkFlagRequired("job")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}

	types := splitList(questionsTypes)
	if len(types) == 0 {
		types = usecase.DefaultQuestionTypes
	}

	questions, err := a.questions().Find(cmd.Context(), questionsJD, types)
	if err != nil {
		return indexError(usecase.InterviewCorpus, err)
	}

	if questionsJSON {
		return printJSON(questions)
	}

	for _, qt := range types {
		fmt.Printf("%s:\n", qt)
		if len(questions[qt]) == 0 {
			fmt.Println("  (none found)")
		}
		for _, q := range questions[qt] {
			fmt.Printf("  - %s\n", q)
		}
		fmt.Println()
	}
	return nil
}
