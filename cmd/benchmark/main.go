package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"careerpilot/config"
	"careerpilot/internal/adapter/chunker"
	"careerpilot/internal/adapter/embedding"
	"careerpilot/internal/adapter/extract"
	"careerpilot/internal/port"
	"careerpilot/internal/usecase"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding careerpilot.yaml and the data dir")
	corpus := flag.String("corpus", usecase.CVCorpus, "Corpus to query")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 5, "Number of results")
	runs := flag.Int("n", 20, "Number of timed query runs")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -q \"query\"")
		fmt.Println("\nReports:")
		fmt.Println("  1. Index load time and size")
		fmt.Println("  2. Similarity of the top matches")
		fmt.Println("  3. Query latency over repeated runs")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding not available: %v\n", err)
		os.Exit(1)
	}

	pipeline, err := setupPipeline(cfg, *dir, *corpus, embedder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	start := time.Now()
	if err := pipeline.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading index: %v\n", err)
		os.Exit(1)
	}
	loadTime := time.Since(start)

	ctx := context.Background()
	summary, err := pipeline.Summarize(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Corpus:    %s (%d chunks, %d words)\n", summary.Corpus, summary.TotalChunks, summary.TotalWords)
	fmt.Printf("Model:     %s (%s)\n", embedder.ModelName(), cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", embedder.Dimension())
	fmt.Printf("Load time: %s\n", loadTime)
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	results, err := pipeline.Query(ctx, *query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("Top %d matches:\n\n", len(results))

	totalScore := 0.0
	for i, r := range results {
		preview := r.Text
		if len(preview) > 150 {
			preview = preview[:150] + "..."
		}
		preview = strings.ReplaceAll(preview, "\n", " ")

		totalScore += r.Score

		rating := "LOW"
		if r.Score > 0.7 {
			rating = "HIGH"
		} else if r.Score > 0.5 {
			rating = "GOOD"
		} else if r.Score > 0.3 {
			rating = "OK"
		}

		fmt.Printf("%d. [%s %.3f] %s #%d\n", i+1, rating, r.Score, filepath.Base(r.Source), r.Metadata.Position)
		fmt.Printf("   %s\n\n", preview)
	}

	latencies := make([]time.Duration, 0, *runs)
	for i := 0; i < *runs; i++ {
		t0 := time.Now()
		if _, err := pipeline.Query(ctx, *query, *topK); err != nil {
			fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
			os.Exit(1)
		}
		latencies = append(latencies, time.Since(t0))
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", results[0].Score)
	if len(latencies) > 0 {
		fmt.Printf("  Query latency p50:  %s\n", latencies[len(latencies)/2])
		fmt.Printf("  Query latency max:  %s\n", latencies[len(latencies)-1])
	}

	if avgScore > 0.5 {
		fmt.Println("  Status: GOOD - semantic search working well")
	} else if avgScore > 0.3 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - may need a remote embedding model or re-indexing")
	}
}

func setupPipeline(cfg *config.Config, dir, corpus string, embedder port.EmbeddingProvider) (*usecase.Pipeline, error) {
	if err := usecase.ValidateCorpusName(corpus); err != nil {
		return nil, err
	}
	chk, err := chunker.New(cfg.Chunking.Mode, cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, fmt.Errorf("chunker init failed: %w", err)
	}

	return usecase.NewPipeline(corpus, cfg.ResolveDataDir(dir), usecase.PipelineDeps{
		Extractor: extract.NewRegistry(),
		Chunker:   chk,
		Embedder:  embedder,
	}, nil), nil
}
