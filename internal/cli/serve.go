package cli

import (
	"github.com/spf13/cobra"

	"careerpilot/internal/adapter/mcp"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query and recommendation tools over MCP",
	Long: `Start a Model Context Protocol server exposing query_corpus,
summarize_corpus, recommend_jobs, market_insights and interview_questions.
Serves on stdio unless an address is given.

Examples:
  careerpilot serve
  careerpilot serve --addr :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default from config, empty for stdio)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := currentApp()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Corpus:    a.corpora,
		Jobs:      a.jobs,
		Questions: a.questions(),
	}, mcp.Options{
		DefaultTopK:            a.cfg.Retrieve.TopK,
		DefaultRecommendations: a.cfg.Recommend.NumRecommendations,
	}, a.log)
	if err != nil {
		return err
	}

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	if addr == "" {
		return server.Run(cmd.Context())
	}
	return server.RunHTTP(cmd.Context(), addr)
}
