package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mitthhuu3110/dsa-sensei/internal/composer"
	"github.com/mitthhuu3110/dsa-sensei/internal/config"
	"github.com/mitthhuu3110/dsa-sensei/internal/corpus"
	"github.com/mitthhuu3110/dsa-sensei/internal/embeddings"
	"github.com/mitthhuu3110/dsa-sensei/internal/generation"
	"github.com/mitthhuu3110/dsa-sensei/internal/ingest"
	"github.com/mitthhuu3110/dsa-sensei/internal/logging"
	"github.com/mitthhuu3110/dsa-sensei/internal/retriever"
	"github.com/mitthhuu3110/dsa-sensei/internal/scanner"
	"github.com/mitthhuu3110/dsa-sensei/internal/tutor"
	"github.com/mitthhuu3110/dsa-sensei/internal/vectorstore"
)

// app holds the wired components for a sensei process.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	corpus   *corpus.Store
	embedder embeddings.Provider
	store    vectorstore.Store
	tutor    *tutor.Service
}

// newApp loads config and wires every component behind the tutor
// service. Callers must Close the returned app.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	corpusStore := corpus.NewStore(cfg.Corpus.Path, logger.Named("corpus"))

	embedder, err := embeddings.NewProvider(embeddings.Config{
		Provider:  cfg.Embeddings.Provider,
		Model:     cfg.Embeddings.Model,
		BaseURL:   cfg.Embeddings.BaseURL,
		APIKey:    cfg.Embeddings.APIKey.Value(),
		CacheDir:  cfg.Embeddings.CacheDir,
		Dimension: cfg.Embeddings.Dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding provider: %w", err)
	}

	store, err := newVectorStore(cfg, embedder.Dimension(), logger)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	sc, err := scanner.New(corpusStore, scanner.Config{
		ChunkSize:     cfg.Ingest.ChunkSize,
		ChunkOverlap:  cfg.Ingest.ChunkOverlap,
		FilenameBonus: cfg.Scanner.FilenameBonus,
	}, logger.Named("scanner"))
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}

	r, err := retriever.New(store, embedder, sc, logger.Named("retriever"))
	if err != nil {
		return nil, fmt.Errorf("creating retriever: %w", err)
	}

	genProvider, err := newGenerationProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating generation provider: %w", err)
	}

	comp, err := composer.New(composer.Config{
		MaxContextChars: cfg.Generation.MaxContextChars,
	}, genProvider, logger.Named("composer"))
	if err != nil {
		return nil, fmt.Errorf("creating composer: %w", err)
	}

	svc, err := tutor.New(tutor.Config{TopK: cfg.Tutor.TopK}, r, comp, logger.Named("tutor"))
	if err != nil {
		return nil, fmt.Errorf("creating tutor service: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		corpus:   corpusStore,
		embedder: embedder,
		store:    store,
		tutor:    svc,
	}, nil
}

func newVectorStore(cfg *config.Config, dimension int, logger *zap.Logger) (vectorstore.Store, error) {
	switch cfg.VectorStore.Provider {
	case "chromem", "":
		return vectorstore.NewChromemStore(vectorstore.ChromemConfig{
			Path:       cfg.VectorStore.Chromem.Path,
			Compress:   cfg.VectorStore.Chromem.Compress,
			Collection: cfg.VectorStore.Chromem.Collection,
			VectorSize: dimension,
		}, logger.Named("vectorstore"))
	case "qdrant":
		return vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
			Host:       cfg.VectorStore.Qdrant.Host,
			Port:       cfg.VectorStore.Qdrant.Port,
			Collection: cfg.VectorStore.Qdrant.Collection,
			UseTLS:     cfg.VectorStore.Qdrant.UseTLS,
			VectorSize: dimension,
		}, logger.Named("vectorstore"))
	default:
		return nil, fmt.Errorf("unknown vector store provider: %q", cfg.VectorStore.Provider)
	}
}

// newGenerationProvider returns nil for the local provider; the
// composer's built-in fallback covers that path.
func newGenerationProvider(cfg *config.Config) (generation.Provider, error) {
	switch cfg.Generation.Provider {
	case "local", "":
		return nil, nil
	case "remote":
		return generation.NewRemoteProvider(generation.RemoteConfig{
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			APIKey:      cfg.Generation.APIKey.Value(),
			Timeout:     cfg.Generation.Timeout.Duration(),
			Temperature: cfg.Generation.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown generation provider: %q", cfg.Generation.Provider)
	}
}

// newIngestPipeline builds the ingestion pipeline over the app's
// already-wired components.
func (a *app) newIngestPipeline() (*ingest.Pipeline, error) {
	return ingest.New(ingest.Config{
		ChunkSize:           a.cfg.Ingest.ChunkSize,
		ChunkOverlap:        a.cfg.Ingest.ChunkOverlap,
		BatchSize:           a.cfg.Ingest.BatchSize,
		MaxChunks:           a.cfg.Ingest.MaxChunks,
		SleepBetweenBatches: a.cfg.Ingest.SleepBetweenBatches.Duration(),
	}, a.corpus, a.embedder, a.store, a.logger.Named("ingest"))
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
