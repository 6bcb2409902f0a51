// Package retriever selects context passages for a question, preferring
// the vector index and degrading to the lexical filesystem scanner.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitthhuu3110/dsa-sensei/internal/embeddings"
	"github.com/mitthhuu3110/dsa-sensei/internal/scanner"
	"github.com/mitthhuu3110/dsa-sensei/internal/vectorstore"
	"go.uber.org/zap"
)

// Provenance identifies which retrieval path produced a context.
type Provenance string

const (
	// ProvenanceVector marks contexts from the vector index.
	ProvenanceVector Provenance = "vector"

	// ProvenanceFilesystem marks contexts from the fallback scanner.
	ProvenanceFilesystem Provenance = "filesystem"
)

// Context is a ranked passage handed to the answer composer. Transient,
// created per query, never persisted.
type Context struct {
	// Text is the passage content.
	Text string

	// Source is the originating document identifier.
	Source string

	// Score is the relevance score. Scores are only comparable within
	// one provenance.
	Score float64

	// Provenance tags the path that produced this context.
	Provenance Provenance
}

// Retriever returns ranked context passages for a question.
//
// The vector path is tried first. ErrIndexUnavailable, embedding failure,
// or zero stored matches all degrade transparently to the filesystem
// scanner: retrieval failures are absorbed into a (possibly empty) result,
// never surfaced to the question flow.
type Retriever struct {
	store    vectorstore.Store
	embedder embeddings.Provider
	scanner  *scanner.Scanner
	logger   *zap.Logger
}

// New creates a Retriever. The vector store may be nil for scanner-only
// operation; the scanner is mandatory since it is the last line of defense.
func New(store vectorstore.Store, embedder embeddings.Provider, scan *scanner.Scanner, logger *zap.Logger) (*Retriever, error) {
	if scan == nil {
		return nil, fmt.Errorf("fallback scanner is required")
	}
	if store != nil && embedder == nil {
		return nil, fmt.Errorf("embedding provider is required when a vector store is configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{store: store, embedder: embedder, scanner: scan, logger: logger}, nil
}

// Retrieve returns up to k contexts ordered by descending relevance.
// An empty corpus and empty index yield an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]Context, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	if r.store != nil {
		contexts, ok := r.queryVector(ctx, question, k)
		if ok {
			return contexts, nil
		}
	}

	return r.scanFilesystem(ctx, question, k)
}

// queryVector tries the vector path. The second return is false whenever
// the scanner fallback should run instead.
func (r *Retriever) queryVector(ctx context.Context, question string, k int) ([]Context, bool) {
	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		r.logger.Warn("question embedding failed, falling back to filesystem scan",
			zap.Error(err))
		return nil, false
	}

	records, err := r.store.Query(ctx, vector, k)
	if err != nil {
		if errors.Is(err, vectorstore.ErrIndexUnavailable) {
			r.logger.Debug("vector index unavailable, falling back to filesystem scan")
		} else {
			r.logger.Warn("vector query failed, falling back to filesystem scan",
				zap.Error(err))
		}
		return nil, false
	}
	if len(records) == 0 {
		r.logger.Debug("vector index returned no matches, falling back to filesystem scan")
		return nil, false
	}

	contexts := make([]Context, len(records))
	for i, rec := range records {
		contexts[i] = Context{
			Text:       rec.Text,
			Source:     rec.DocumentID,
			Score:      float64(rec.Score),
			Provenance: ProvenanceVector,
		}
	}
	return contexts, true
}

// scanFilesystem runs the lexical fallback. Scan errors are absorbed into
// an empty result; by this point there is nothing left to fall back to.
func (r *Retriever) scanFilesystem(ctx context.Context, question string, k int) ([]Context, error) {
	results, err := r.scanner.Scan(ctx, question, k)
	if err != nil {
		r.logger.Warn("filesystem scan failed, returning no contexts", zap.Error(err))
		return nil, nil
	}

	contexts := make([]Context, len(results))
	for i, res := range results {
		contexts[i] = Context{
			Text:       res.Text,
			Source:     res.Source,
			Score:      res.Score,
			Provenance: ProvenanceFilesystem,
		}
	}
	return contexts, nil
}
