package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// defaultRemoteTimeout bounds every remote embedding call so a dead
// endpoint fails fast instead of blocking the request.
const defaultRemoteTimeout = 30 * time.Second

// RemoteConfig holds configuration for the remote embedding provider.
type RemoteConfig struct {
	// BaseURL is the OpenAI-compatible endpoint.
	// Default: https://api.openai.com/v1
	BaseURL string

	// Model is the embedding model. Default: text-embedding-3-small.
	Model string

	// APIKey authenticates the calls.
	APIKey string

	// Timeout bounds each HTTP call. Defaults to 30s.
	Timeout time.Duration
}

// remoteModelDimensions maps known remote models to their dimensions.
var remoteModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// RemoteProvider generates embeddings through an OpenAI-compatible API.
// Calls can fail with ErrQuotaExceeded, ErrRateLimited, or plain network
// errors; callers must not assume zero failures.
type RemoteProvider struct {
	embedder  *lcembeddings.EmbedderImpl
	dimension int
}

// NewRemoteProvider creates a remote embedding provider.
func NewRemoteProvider(cfg RemoteConfig) (*RemoteProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: remote provider requires an API key", ErrInvalidConfig)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultRemoteTimeout
	}

	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(model),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	dim, ok := remoteModelDimensions[model]
	if !ok {
		dim = 1536
	}

	return &RemoteProvider{embedder: embedder, dimension: dim}, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *RemoteProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}
	vector, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, classifyRemoteError(err)
	}
	return vector, nil
}

// EmbedDocuments generates embeddings for multiple texts, preserving order.
func (p *RemoteProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, classifyRemoteError(err)
	}
	return vectors, nil
}

// Dimension returns the embedding dimension for the configured model.
func (p *RemoteProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op; the provider holds no persistent connection.
func (p *RemoteProvider) Close() error {
	return nil
}

// classifyRemoteError maps provider error text onto the package sentinels
// so callers can branch with errors.Is. The OpenAI-compatible surface does
// not expose typed errors, so string inspection is the available signal.
func classifyRemoteError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient_quota") || strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
}
