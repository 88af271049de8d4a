package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"careerpilot/internal/domain"
)

var embeddingDimensions = map[string]int{
	"text-embedding-3-large": 3072,
	"text-embedding-3-small": 1536,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
	"jina-embeddings-v3":     1024,
}

// RemoteConfig configures a RemoteProvider.
type RemoteConfig struct {
	APIKey            string
	Model             string
	BaseURL           string // empty = api.openai.com
	Dimension         int    // used when the model is not a known one
	Timeout           time.Duration
	BatchSize         int
	RequestsPerSecond float64 // 0 = unlimited
}

// RemoteProvider embeds text through an OpenAI-compatible embeddings API.
// It classifies failures but never retries.
type RemoteProvider struct {
	client    *openai.Client
	model     string
	dimension int
	timeout   time.Duration
	batchSize int
	limiter   *rate.Limiter
}

func NewRemoteProvider(cfg RemoteConfig) (*RemoteProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", domain.ErrAuth)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	dimension, ok := embeddingDimensions[cfg.Model]
	if !ok {
		dimension = cfg.Dimension
	}
	if dimension <= 0 {
		dimension = 1536
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &RemoteProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		dimension: dimension,
		timeout:   timeout,
		batchSize: batchSize,
		limiter:   limiter,
	}, nil
}

func (p *RemoteProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += p.batchSize {
		end := i + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		embeddings, err := p.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, embeddings...)
	}

	return all, nil
}

func (p *RemoteProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := p.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (p *RemoteProvider) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrTransient, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: requested %d embeddings, got %d", domain.ErrFatal, len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(embeddings) || embeddings[data.Index] != nil {
			return nil, fmt.Errorf("%w: bad embedding index %d", domain.ErrFatal, data.Index)
		}
		if len(data.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", domain.ErrFatal, data.Index)
		}
		vec := make([]float32, len(data.Embedding))
		copy(vec, data.Embedding)
		embeddings[data.Index] = vec
	}

	return embeddings, nil
}

// classify maps a client error onto ErrAuth, ErrTransient or ErrFatal.
func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status != 0 {
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return fmt.Errorf("%w: status %d: %v", domain.ErrAuth, status, err)
		case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500:
			return fmt.Errorf("%w: status %d: %v", domain.ErrTransient, status, err)
		default:
			return fmt.Errorf("%w: status %d: %v", domain.ErrFatal, status, err)
		}
	}

	var netErr net.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return fmt.Errorf("%w: malformed response: %v", domain.ErrFatal, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrFatal, err)
	}
}

func (p *RemoteProvider) Dimension() int {
	return p.dimension
}

func (p *RemoteProvider) ModelName() string {
	return p.model
}
