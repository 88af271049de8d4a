package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const Version = "0.1.0"

// Server is the careerpilot MCP tool server.
type Server struct {
	ports    *Ports
	server   *mcp.Server
	defaultK int
	defaultN int
	log      *zap.Logger
}

// Options tune tool defaults.
type Options struct {
	DefaultTopK            int
	DefaultRecommendations int
}

func NewServer(ports *Ports, opts Options, log *zap.Logger) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 5
	}
	if opts.DefaultRecommendations <= 0 {
		opts.DefaultRecommendations = 5
	}
	if log == nil {
		log = zap.NewNop()
	}

	impl := &mcp.Implementation{
		Name:    "careerpilot",
		Version: Version,
	}

	s := &Server{
		ports:    ports,
		server:   mcp.NewServer(impl, nil),
		defaultK: opts.DefaultTopK,
		defaultN: opts.DefaultRecommendations,
		log:      log,
	}
	s.registerTools()

	return s, nil
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	s.log.Info("mcp server listening", zap.String("addr", addr))
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
