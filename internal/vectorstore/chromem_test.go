package vectorstore_test

import (
	"context"
	"math"
	"testing"

	"github.com/mitthhuu3110/dsa-sensei/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *vectorstore.ChromemStore {
	t.Helper()
	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path:       "", // in-memory
		Collection: "test_notes",
		VectorSize: 4,
	}, zap.NewNop())
	require.NoError(t, err)
	return store
}

// unit returns a normalized copy of v.
func unit(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := float32(1 / math.Sqrt(sumSq))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x * norm
	}
	return out
}

func testRecord(docID string, chunkIndex int, text string, v []float32) vectorstore.Record {
	return vectorstore.Record{
		ID:         vectorstore.RecordID(docID, chunkIndex),
		DocumentID: docID,
		ChunkIndex: chunkIndex,
		Text:       text,
		Vector:     unit(v),
	}
}

func TestRecordID_Deterministic(t *testing.T) {
	assert.Equal(t,
		vectorstore.RecordID("notes/arrays.md", 2),
		vectorstore.RecordID("notes/arrays.md", 2))
	assert.NotEqual(t,
		vectorstore.RecordID("notes/arrays.md", 2),
		vectorstore.RecordID("notes/arrays.md", 3))
	assert.NotEqual(t,
		vectorstore.RecordID("notes/arrays.md", 2),
		vectorstore.RecordID("notes/heaps.md", 2))
}

func TestChromemStore_EmptyIndexUnavailable(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	_, err := store.Query(context.Background(), unit([]float32{1, 0, 0, 0}), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, vectorstore.ErrIndexUnavailable)
}

func TestChromemStore_UpsertAndQuery(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	err := store.Upsert(ctx, []vectorstore.Record{
		testRecord("a.md", 0, "arrays", []float32{1, 0, 0, 0}),
		testRecord("b.md", 0, "graphs", []float32{0, 1, 0, 0}),
		testRecord("c.md", 0, "heaps", []float32{0, 0, 1, 0}),
	})
	require.NoError(t, err)

	results, err := store.Query(ctx, unit([]float32{1, 0.1, 0, 0}), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "arrays", results[0].Text)
	assert.Equal(t, "a.md", results[0].DocumentID)
	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestChromemStore_UpsertIdempotent(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	records := []vectorstore.Record{
		testRecord("a.md", 0, "first chunk", []float32{1, 0, 0, 0}),
		testRecord("a.md", 1, "second chunk", []float32{0, 1, 0, 0}),
	}

	require.NoError(t, store.Upsert(ctx, records))
	first, err := store.Count(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Upsert(ctx, records))
	second, err := store.Count(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-ingestion must not create duplicates")
	assert.Equal(t, 2, second)
}

func TestChromemStore_KLargerThanCount(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{
		testRecord("a.md", 0, "only chunk", []float32{1, 0, 0, 0}),
	}))

	results, err := store.Query(ctx, unit([]float32{1, 0, 0, 0}), 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestChromemStore_DimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	err := store.Upsert(ctx, []vectorstore.Record{{
		ID:     vectorstore.RecordID("a.md", 0),
		Text:   "bad",
		Vector: []float32{1, 0},
	}})
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	_, err = store.Query(ctx, []float32{1, 0}, 3)
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestChromemStore_EmptyUpsert(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	err := store.Upsert(context.Background(), nil)
	assert.ErrorIs(t, err, vectorstore.ErrEmptyRecords)
}

func TestChromemStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := vectorstore.ChromemConfig{Path: dir, Collection: "persist_test", VectorSize: 4}

	store, err := vectorstore.NewChromemStore(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), []vectorstore.Record{
		testRecord("a.md", 0, "persisted chunk", []float32{1, 0, 0, 0}),
	}))
	require.NoError(t, store.Close())

	reopened, err := vectorstore.NewChromemStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestChromemStore_TiedScoresOrderedByDocumentThenChunk(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	// Every record carries the same vector, so every query result ties
	// on score and ordering falls to the document/chunk tie-break.
	v := []float32{1, 0, 0, 0}
	var records []vectorstore.Record
	for _, doc := range []string{"graphs.md", "arrays.md", "trees.md"} {
		for i := 0; i < 3; i++ {
			records = append(records, testRecord(doc, i, doc+" chunk", v))
		}
	}
	require.NoError(t, store.Upsert(ctx, records))

	first, err := store.Query(ctx, unit(v), 4)
	require.NoError(t, err)
	require.Len(t, first, 4)

	for i, want := range []struct {
		doc   string
		chunk int
	}{
		{"arrays.md", 0}, {"arrays.md", 1}, {"arrays.md", 2}, {"graphs.md", 0},
	} {
		assert.Equal(t, want.doc, first[i].DocumentID)
		assert.Equal(t, want.chunk, first[i].ChunkIndex)
	}

	again, err := store.Query(ctx, unit(v), 4)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}
