// Package vectorstore defines the interface for vector index operations.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Sentinel errors for vector store operations.
var (
	// ErrIndexUnavailable is returned when the index is empty or
	// unreachable. It is the retriever's signal to fall back to the
	// filesystem scanner, deliberately distinct from a healthy index
	// returning zero matches (an empty, non-error result).
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrInvalidConfig indicates invalid store configuration.
	ErrInvalidConfig = errors.New("invalid vector store configuration")

	// ErrEmptyRecords indicates an upsert with no records.
	ErrEmptyRecords = errors.New("empty or nil records")

	// ErrDimensionMismatch indicates a vector whose dimension does not
	// match the store's configured dimension. Vectors from different
	// embedding providers must never be compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// recordNamespace seeds deterministic record IDs. Fixed so re-ingestion
// of an unchanged corpus maps every chunk to the same ID.
var recordNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Record is an indexed chunk with its embedding and metadata.
// Records are never mutated in place; re-ingestion upserts by ID.
type Record struct {
	// ID is the deterministic identifier, derived from the document ID
	// and chunk index via RecordID.
	ID string

	// DocumentID is the source document identifier.
	DocumentID string

	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int

	// Text is the chunk content.
	Text string

	// Vector is the chunk's embedding.
	Vector []float32
}

// ScoredRecord is a query hit with its similarity score.
// Higher score means more relevant.
type ScoredRecord struct {
	Record
	Score float32
}

// Store is the interface for vector index backends.
//
// Implementations:
//   - ChromemStore: embedded chromem-go (default, no external service)
//   - QdrantStore: external Qdrant over gRPC
type Store interface {
	// Upsert writes records by their deterministic IDs. Writing the same
	// records twice leaves the index unchanged.
	Upsert(ctx context.Context, records []Record) error

	// Query returns up to k records nearest to the vector by cosine
	// similarity, ordered by descending score with exact ties broken by
	// document id then chunk index. An empty or unreachable index
	// returns ErrIndexUnavailable; a healthy index with no matches
	// returns an empty slice.
	Query(ctx context.Context, vector []float32, k int) ([]ScoredRecord, error)

	// Count returns the number of records in the index.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// RecordID derives the deterministic upsert key for a chunk. The same
// (document id, chunk index) pair always produces the same UUID, which
// keeps ingestion idempotent across runs and backends.
func RecordID(documentID string, chunkIndex int) string {
	return uuid.NewSHA1(recordNamespace, []byte(fmt.Sprintf("%s#%d", documentID, chunkIndex))).String()
}

// sortScored orders results by descending score, breaking exact ties by
// document id then chunk index. Ingestion walks the corpus in sorted
// order, so tied records come back in insertion order regardless of how
// the backend iterates its storage.
func sortScored(records []ScoredRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		return a.ChunkIndex < b.ChunkIndex
	})
}
