// Package config provides configuration loading for the tutor service.
//
// Configuration precedence (highest to lowest): environment variables,
// YAML config file, hardcoded defaults.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete service configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Corpus      CorpusConfig      `koanf:"corpus"`
	Ingest      IngestConfig      `koanf:"ingest"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Scanner     ScannerConfig     `koanf:"scanner"`
	Generation  GenerationConfig  `koanf:"generation"`
	Tutor       TutorConfig       `koanf:"tutor"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CorpusConfig holds study-notes corpus configuration.
type CorpusConfig struct {
	Path string `koanf:"path"`
}

// IngestConfig holds ingestion pipeline configuration.
type IngestConfig struct {
	ChunkSize           int      `koanf:"chunk_size"`
	ChunkOverlap        int      `koanf:"chunk_overlap"`
	BatchSize           int      `koanf:"batch_size"`
	MaxChunks           int      `koanf:"max_chunks"`
	SleepBetweenBatches Duration `koanf:"sleep_between_batches"`
}

// EmbeddingsConfig holds embedding provider configuration.
type EmbeddingsConfig struct {
	Provider  string `koanf:"provider"`
	Model     string `koanf:"model"`
	BaseURL   string `koanf:"base_url"`
	APIKey    Secret `koanf:"api_key"`
	CacheDir  string `koanf:"cache_dir"`
	Dimension int    `koanf:"dimension"`
}

// VectorStoreConfig holds vector index configuration.
type VectorStoreConfig struct {
	Provider string        `koanf:"provider"`
	Chromem  ChromemConfig `koanf:"chromem"`
	Qdrant   QdrantConfig  `koanf:"qdrant"`
}

// ChromemConfig holds embedded chromem-go configuration.
type ChromemConfig struct {
	Path       string `koanf:"path"`
	Compress   bool   `koanf:"compress"`
	Collection string `koanf:"collection"`
}

// QdrantConfig holds Qdrant gRPC configuration.
type QdrantConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Collection string `koanf:"collection"`
	UseTLS     bool   `koanf:"use_tls"`
}

// ScannerConfig holds filesystem fallback scanner configuration.
type ScannerConfig struct {
	FilenameBonus float64 `koanf:"filename_bonus"`
}

// GenerationConfig holds answer generation configuration.
type GenerationConfig struct {
	Provider        string   `koanf:"provider"`
	Model           string   `koanf:"model"`
	BaseURL         string   `koanf:"base_url"`
	APIKey          Secret   `koanf:"api_key"`
	Timeout         Duration `koanf:"timeout"`
	Temperature     float64  `koanf:"temperature"`
	MaxContextChars int      `koanf:"max_context_chars"`
}

// TutorConfig holds tutor service configuration.
type TutorConfig struct {
	TopK int `koanf:"top_k"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "./notes"
	}

	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 500
	}
	if cfg.Ingest.ChunkOverlap == 0 {
		cfg.Ingest.ChunkOverlap = 50
	}
	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = 1
	}

	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "local"
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = "chromem"
	}
	if cfg.VectorStore.Chromem.Path == "" {
		cfg.VectorStore.Chromem.Path = "~/.config/sensei/vectorstore"
	}
	if cfg.VectorStore.Chromem.Collection == "" {
		cfg.VectorStore.Chromem.Collection = "sensei_notes"
	}
	if cfg.VectorStore.Qdrant.Host == "" {
		cfg.VectorStore.Qdrant.Host = "localhost"
	}
	if cfg.VectorStore.Qdrant.Port == 0 {
		cfg.VectorStore.Qdrant.Port = 6334
	}
	if cfg.VectorStore.Qdrant.Collection == "" {
		cfg.VectorStore.Qdrant.Collection = "sensei_notes"
	}

	if cfg.Scanner.FilenameBonus == 0 {
		cfg.Scanner.FilenameBonus = 2.5
	}

	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = "local"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gpt-4o"
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = Duration(60 * time.Second)
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.3
	}
	if cfg.Generation.MaxContextChars == 0 {
		cfg.Generation.MaxContextChars = 2000
	}

	if cfg.Tutor.TopK == 0 {
		cfg.Tutor.TopK = 3
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("invalid chunk size: %d", c.Ingest.ChunkSize)
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, chunk size), got %d", c.Ingest.ChunkOverlap)
	}

	switch c.Embeddings.Provider {
	case "local", "fastembed", "remote":
	default:
		return fmt.Errorf("unknown embeddings provider: %q", c.Embeddings.Provider)
	}
	if c.Embeddings.Provider == "remote" && !c.Embeddings.APIKey.IsSet() {
		return errors.New("remote embeddings provider requires an API key")
	}

	switch c.VectorStore.Provider {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("unknown vector store provider: %q", c.VectorStore.Provider)
	}

	switch c.Generation.Provider {
	case "local", "remote":
	default:
		return fmt.Errorf("unknown generation provider: %q", c.Generation.Provider)
	}
	if c.Generation.Provider == "remote" && !c.Generation.APIKey.IsSet() {
		return errors.New("remote generation provider requires an API key")
	}

	if c.Tutor.TopK <= 0 {
		return fmt.Errorf("top k must be positive, got %d", c.Tutor.TopK)
	}

	return nil
}
