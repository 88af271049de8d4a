package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"careerpilot/internal/domain"
	"careerpilot/internal/usecase"
)

var (
	queryText   string
	queryTopK   int
	queryJSON   bool
	queryCorpus string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search an indexed corpus",
	Long: `Return the chunks most similar to a query, best first.

Examples:
  careerpilot query -q "programming languages"
  careerpilot query -q "system design" --corpus interview --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().StringVarP(&queryCorpus, "corpus", "c", usecase.CVCorpus, "corpus name")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}

	topK := a.cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := a.corpora.Query(cmd.Context(), queryCorpus, queryText, topK)
	if err != nil {
		return indexError(queryCorpus, err)
	}

	if queryJSON {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] %s #%d (score: %.2f) ---\n", i+1, r.Source, r.Metadata.Position, r.Score)
		fmt.Println(truncate(r.Text, 500))
		fmt.Println()
	}
	return nil
}

// indexError turns load failures into actionable messages.
func indexError(corpus string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoIndex):
		return fmt.Errorf("no index found for corpus %q. Run 'careerpilot build --corpus %s <files>' first", corpus, corpus)
	case errors.Is(err, domain.ErrEmbeddingMismatch):
		return fmt.Errorf("corpus %q was built with a different embedding model, rebuild it: %w", corpus, err)
	case errors.Is(err, domain.ErrCorruptIndex):
		return fmt.Errorf("corpus %q is damaged, rebuild it: %w", corpus, err)
	}
	return fmt.Errorf("search failed: %w", err)
}
