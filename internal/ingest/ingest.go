// Package ingest walks the study-notes corpus, chunks each document,
// embeds the chunks in batches, and upserts the resulting records into
// the vector index. Record IDs are deterministic, so re-running the
// pipeline over an unchanged corpus leaves the index unchanged.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mitthhuu3110/dsa-sensei/internal/chunker"
	"github.com/mitthhuu3110/dsa-sensei/internal/corpus"
	"github.com/mitthhuu3110/dsa-sensei/internal/embeddings"
	"github.com/mitthhuu3110/dsa-sensei/internal/vectorstore"
)

// Default configuration values.
const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
	defaultBatchSize    = 1
)

// Config holds ingestion pipeline configuration.
type Config struct {
	// ChunkSize is the chunk window in runes. Default: 500.
	ChunkSize int

	// ChunkOverlap is the overlap between adjacent chunks. Default: 50.
	ChunkOverlap int

	// BatchSize is the number of chunks embedded per call. Default: 1.
	BatchSize int

	// MaxChunks caps total chunks indexed per run. 0 means unlimited.
	MaxChunks int

	// SleepBetweenBatches pauses between embedding batches, for rate
	// limited remote providers. 0 disables the pause.
	SleepBetweenBatches time.Duration
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = defaultChunkOverlap
	}
	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.MaxChunks < 0 {
		return fmt.Errorf("max chunks must be non-negative, got %d", c.MaxChunks)
	}
	return nil
}

// Report summarizes an ingestion run.
type Report struct {
	// DocumentsProcessed is the number of corpus documents that
	// contributed chunks to the run. Documents cut off by MaxChunks
	// are not counted.
	DocumentsProcessed int

	// ChunksIndexed is the number of chunks embedded and upserted.
	ChunksIndexed int

	// ChunksSkipped is the number of chunks dropped because their
	// embedding batch failed.
	ChunksSkipped int

	// Duration is the wall time the run took.
	Duration time.Duration
}

// Pipeline ingests a corpus into a vector store.
type Pipeline struct {
	cfg      Config
	corpus   *corpus.Store
	embedder embeddings.Provider
	store    vectorstore.Store
	logger   *zap.Logger
}

// New creates an ingestion pipeline.
func New(cfg Config, c *corpus.Store, embedder embeddings.Provider, store vectorstore.Store, logger *zap.Logger) (*Pipeline, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ingest config: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("corpus store is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedding provider is required")
	}
	if store == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, corpus: c, embedder: embedder, store: store, logger: logger}, nil
}

// Run executes the pipeline. A failing embedding batch is skipped and
// counted, not fatal; upsert failures abort the run since the index
// itself is broken.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	docs, err := p.corpus.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	chunks, processed, err := p.collectChunks(docs)
	if err != nil {
		return nil, err
	}

	report := &Report{DocumentsProcessed: processed}
	for i := 0; i < len(chunks); i += p.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := i + p.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		indexed, err := p.indexBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		report.ChunksIndexed += indexed
		report.ChunksSkipped += len(batch) - indexed

		if p.cfg.SleepBetweenBatches > 0 && end < len(chunks) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.cfg.SleepBetweenBatches):
			}
		}
	}

	report.Duration = time.Since(start)
	p.logger.Info("ingestion complete",
		zap.Int("documents", report.DocumentsProcessed),
		zap.Int("chunks_indexed", report.ChunksIndexed),
		zap.Int("chunks_skipped", report.ChunksSkipped),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// collectChunks splits documents until the MaxChunks cap is hit. It
// also returns how many documents actually contributed chunks, so the
// report does not claim documents the cap cut off.
func (p *Pipeline) collectChunks(docs []corpus.Document) ([]chunker.Chunk, int, error) {
	var chunks []chunker.Chunk
	processed := 0
	for _, doc := range docs {
		cs, err := chunker.Split(doc.ID, doc.Text, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
		if err != nil {
			return nil, 0, fmt.Errorf("chunking %s: %w", doc.ID, err)
		}
		chunks = append(chunks, cs...)
		processed++
		if p.cfg.MaxChunks > 0 && len(chunks) >= p.cfg.MaxChunks {
			chunks = chunks[:p.cfg.MaxChunks]
			p.logger.Warn("chunk cap reached, truncating corpus",
				zap.Int("max_chunks", p.cfg.MaxChunks),
				zap.Int("documents_processed", processed))
			break
		}
	}
	return chunks, processed, nil
}

// indexBatch embeds one batch and upserts the records. An embedding
// failure skips the whole batch; the records it would have produced are
// reported as skipped.
func (p *Pipeline) indexBatch(ctx context.Context, batch []chunker.Chunk) (int, error) {
	texts := make([]string, len(batch))
	for i, ch := range batch {
		texts[i] = ch.Text
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		p.logger.Warn("embedding batch failed, skipping",
			zap.Int("batch_size", len(batch)),
			zap.String("first_document", batch[0].DocumentID),
			zap.Error(err))
		return 0, nil
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
	}

	records := make([]vectorstore.Record, len(batch))
	for i, ch := range batch {
		records[i] = vectorstore.Record{
			ID:         vectorstore.RecordID(ch.DocumentID, ch.Index),
			DocumentID: ch.DocumentID,
			ChunkIndex: ch.Index,
			Text:       ch.Text,
			Vector:     vectors[i],
		}
	}

	if err := p.store.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("upserting batch: %w", err)
	}
	return len(records), nil
}
