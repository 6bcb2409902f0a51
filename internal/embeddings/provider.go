// Package embeddings provides embedding generation via multiple providers.
package embeddings

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for embedding operations.
var (
	// ErrInvalidConfig indicates invalid provider configuration.
	ErrInvalidConfig = errors.New("invalid embeddings configuration")

	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")

	// ErrQuotaExceeded indicates the remote provider rejected the call for
	// exhausted quota. Per-chunk skippable during ingestion.
	ErrQuotaExceeded = errors.New("embedding provider quota exceeded")

	// ErrRateLimited indicates the remote provider throttled the call.
	ErrRateLimited = errors.New("embedding provider rate limited")
)

// Provider generates fixed-dimension embedding vectors from text.
//
// Vectors from providers with different dimensions must never be compared;
// the vector store records the dimension it was created with.
type Provider interface {
	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments generates embeddings for multiple texts,
	// preserving input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding dimension for this provider.
	Dimension() int

	// Close releases resources held by the provider.
	Close() error
}

// Config holds configuration for creating an embedding provider.
type Config struct {
	// Provider selects the implementation: "local" (default, deterministic,
	// no network), "fastembed" (local ONNX model), or "remote"
	// (OpenAI-compatible API).
	Provider string

	// Model is the model identifier for fastembed/remote providers.
	Model string

	// BaseURL is the API endpoint for the remote provider.
	BaseURL string

	// APIKey authenticates remote calls.
	APIKey string

	// CacheDir caches model files for the fastembed provider.
	CacheDir string

	// Dimension is the vector dimension for the local provider.
	// Defaults to 384.
	Dimension int
}

// NewProvider creates an embedding provider from the configuration.
// The local provider is the default so the system works with no external
// dependency at all.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalProvider(LocalConfig{Dimension: cfg.Dimension})
	case "fastembed":
		return NewFastEmbedProvider(FastEmbedConfig{
			Model:    cfg.Model,
			CacheDir: cfg.CacheDir,
		})
	case "remote":
		return NewRemoteProvider(RemoteConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		})
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (supported: local, fastembed, remote)", ErrInvalidConfig, cfg.Provider)
	}
}
