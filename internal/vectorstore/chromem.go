package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var chromemTracer = otel.Tracer("sensei.vectorstore.chromem")

// ChromemConfig holds configuration for the embedded chromem-go backend.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Empty means
	// in-memory only (useful for tests).
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// Collection is the collection name. Default: "sensei_notes".
	Collection string

	// VectorSize is the expected embedding dimension. Must match the
	// embedding provider's output. Default: 384.
	VectorSize int
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Collection == "" {
		c.Collection = "sensei_notes"
	}
	if c.VectorSize == 0 {
		c.VectorSize = 384
	}
}

// Validate validates the configuration.
func (c *ChromemConfig) Validate() error {
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	return nil
}

// ChromemStore implements Store with chromem-go, an embeddable pure-Go
// vector database. No external service is required, which makes it the
// default backend.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	config     ChromemConfig
	logger     *zap.Logger
}

// NewChromemStore creates a ChromemStore with the given configuration.
func NewChromemStore(config ChromemConfig, logger *zap.Logger) (*ChromemStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	var db *chromem.DB
	if config.Path == "" {
		db = chromem.NewDB()
	} else {
		path, err := expandHome(config.Path)
		if err != nil {
			return nil, fmt.Errorf("expanding path: %w", err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", path, err)
		}
		db, err = chromem.NewPersistentDB(path, config.Compress)
		if err != nil {
			return nil, fmt.Errorf("creating chromem DB: %w", err)
		}
	}

	// Embeddings are precomputed upstream; the collection must never ask
	// for one itself.
	rejectEmbed := func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("chromem: embedding requested for %q, expected precomputed vectors", text)
	}
	collection, err := db.GetOrCreateCollection(config.Collection, nil, rejectEmbed)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", config.Collection, err)
	}

	logger.Info("chromem store initialized",
		zap.String("path", config.Path),
		zap.String("collection", config.Collection),
		zap.Int("vector_size", config.VectorSize))

	return &ChromemStore{
		db:         db,
		collection: collection,
		config:     config,
		logger:     logger,
	}, nil
}

func expandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Upsert writes records into the collection by their deterministic IDs.
func (s *ChromemStore) Upsert(ctx context.Context, records []Record) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Upsert")
	defer span.End()
	span.SetAttributes(attribute.Int("record_count", len(records)))

	if len(records) == 0 {
		return ErrEmptyRecords
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		if len(rec.Vector) != s.config.VectorSize {
			return fmt.Errorf("%w: record %s has dimension %d, store expects %d",
				ErrDimensionMismatch, rec.ID, len(rec.Vector), s.config.VectorSize)
		}
		docs[i] = chromem.Document{
			ID:        rec.ID,
			Content:   rec.Text,
			Embedding: rec.Vector,
			Metadata: map[string]string{
				"document_id": rec.DocumentID,
				"chunk_index": strconv.Itoa(rec.ChunkIndex),
			},
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("adding documents: %w", err)
	}
	span.SetStatus(codes.Ok, "success")
	return nil
}

// Query returns the k nearest records by cosine similarity. An empty
// collection returns ErrIndexUnavailable so callers can fall back.
func (s *ChromemStore) Query(ctx context.Context, vector []float32, k int) ([]ScoredRecord, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Query")
	defer span.End()
	span.SetAttributes(attribute.Int("k", k))

	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfig, k)
	}
	if len(vector) != s.config.VectorSize {
		return nil, fmt.Errorf("%w: query has dimension %d, store expects %d",
			ErrDimensionMismatch, len(vector), s.config.VectorSize)
	}

	count := s.collection.Count()
	if count == 0 {
		span.SetStatus(codes.Error, "empty index")
		return nil, fmt.Errorf("%w: collection %s is empty", ErrIndexUnavailable, s.config.Collection)
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	scored := make([]ScoredRecord, len(results))
	for i, res := range results {
		chunkIndex, _ := strconv.Atoi(res.Metadata["chunk_index"])
		scored[i] = ScoredRecord{
			Record: Record{
				ID:         res.ID,
				DocumentID: res.Metadata["document_id"],
				ChunkIndex: chunkIndex,
				Text:       res.Content,
				Vector:     res.Embedding,
			},
			Score: res.Similarity,
		}
	}
	sortScored(scored)
	span.SetAttributes(attribute.Int("results_count", len(scored)))
	span.SetStatus(codes.Ok, "success")
	return scored, nil
}

// Count returns the number of records in the collection.
func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Close is a no-op; chromem persists on write.
func (s *ChromemStore) Close() error {
	return nil
}
