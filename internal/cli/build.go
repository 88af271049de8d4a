package cli

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"careerpilot/config"
	"careerpilot/internal/domain"
	"careerpilot/internal/usecase"
)

var buildCorpus string

var buildCmd = &cobra.Command{
	Use:   "build [sources...]",
	Short: "Index documents into a corpus",
	Long: `Extract, chunk and embed the given files into a named corpus, replacing
its previous contents. Sources may be files, directories or glob patterns.
Supported formats: .txt, .md, .pdf, .docx, .xlsx.

Examples:
  careerpilot build cv.pdf
  careerpilot build --corpus interview "notes/**/*.md"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildCorpus, "corpus", "c", usecase.CVCorpus, "corpus name")
}

func runBuild(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}

	pipeline, err := a.corpora.Pipeline(buildCorpus)
	if err != nil {
		return err
	}

	result, err := pipeline.Build(cmd.Context(), args, newProgress("Embedding"))
	if err != nil {
		if errors.Is(err, domain.ErrNoDocuments) {
			return fmt.Errorf("nothing to index: none of the sources produced text")
		}
		if domain.IsRetryable(err) {
			return fmt.Errorf("build failed, try again: %w", err)
		}
		return fmt.Errorf("build failed: %w", err)
	}

	vecPath, docPath := config.IndexPaths(a.dataDir, buildCorpus)
	fmt.Printf("\nBuild complete:\n")
	fmt.Printf("  Corpus:         %s\n", buildCorpus)
	fmt.Printf("  Sources:        %d\n", len(result.Sources))
	fmt.Printf("  Chunks created: %d\n", result.Chunks)
	fmt.Printf("  Model:          %s\n", a.embedder.ModelName())

	if len(result.Skipped) > 0 {
		fmt.Printf("\nSkipped:\n")
		for _, s := range result.Skipped {
			fmt.Printf("  - %s\n", s)
		}
	}

	fmt.Printf("\nIndex stored at: %s, %s\n", vecPath, docPath)
	return nil
}

// newProgress returns a ProgressFunc drawing a progress bar with an ETA.
// The bar is created on the first callback, once the total is known.
func newProgress(label string) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var mu sync.Mutex
	var start time.Time

	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()

		if bar == nil {
			start = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+label+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(done)

		if done > 0 && done < total {
			rate := float64(done) / time.Since(start).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]%s[reset] ETA: %s", label, formatDuration(eta)))
			}
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
