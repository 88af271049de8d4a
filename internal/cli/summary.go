package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"careerpilot/internal/usecase"
)

var (
	summaryCorpus string
	summaryJSON   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Describe an indexed corpus",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryCorpus, "corpus", "c", usecase.CVCorpus, "corpus name")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}

	summary, err := a.corpora.Summarize(cmd.Context(), summaryCorpus)
	if err != nil {
		return indexError(summaryCorpus, err)
	}

	if summaryJSON {
		return printJSON(summary)
	}

	fmt.Printf("Corpus: %s\n", summary.Corpus)
	fmt.Printf("  Chunks: %d\n", summary.TotalChunks)
	fmt.Printf("  Words:  %d\n", summary.TotalWords)

	sections := make([]string, 0, len(summary.Sections))
	for s := range summary.Sections {
		sections = append(sections, s)
	}
	sort.Strings(sections)
	fmt.Printf("\nSections:\n")
	for _, s := range sections {
		fmt.Printf("  %-12s %d\n", s, summary.Sections[s])
	}

	fmt.Printf("\nSample:\n%s\n", truncate(summary.SampleText, 300))
	return nil
}
