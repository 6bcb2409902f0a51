package retriever_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitthhuu3110/dsa-sensei/internal/corpus"
	"github.com/mitthhuu3110/dsa-sensei/internal/embeddings"
	"github.com/mitthhuu3110/dsa-sensei/internal/retriever"
	"github.com/mitthhuu3110/dsa-sensei/internal/scanner"
	"github.com/mitthhuu3110/dsa-sensei/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeNote(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newScanner(t *testing.T, root string) *scanner.Scanner {
	t.Helper()
	s, err := scanner.New(corpus.NewStore(root, zap.NewNop()), scanner.Config{}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func newEmbedder(t *testing.T, dim int) embeddings.Provider {
	t.Helper()
	p, err := embeddings.NewLocalProvider(embeddings.LocalConfig{Dimension: dim})
	require.NoError(t, err)
	return p
}

func newStore(t *testing.T, dim int) *vectorstore.ChromemStore {
	t.Helper()
	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Collection: "retriever_test",
		VectorSize: dim,
	}, zap.NewNop())
	require.NoError(t, err)
	return store
}

// indexDocument embeds and upserts a whole document as one chunk.
func indexDocument(t *testing.T, store vectorstore.Store, embedder embeddings.Provider, docID, text string) {
	t.Helper()
	vectors, err := embedder.EmbedDocuments(context.Background(), []string{text})
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), []vectorstore.Record{{
		ID:         vectorstore.RecordID(docID, 0),
		DocumentID: docID,
		ChunkIndex: 0,
		Text:       text,
		Vector:     vectors[0],
	}}))
}

func TestRetrieve_EmptyIndexFallsBackToFilesystem(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "binary_search.txt", "binary search halves a sorted range each step")

	store := newStore(t, 64)
	embedder := newEmbedder(t, 64)
	r, err := retriever.New(store, embedder, newScanner(t, root), zap.NewNop())
	require.NoError(t, err)

	contexts, err := r.Retrieve(context.Background(), "binary search", 3)
	require.NoError(t, err)
	require.NotEmpty(t, contexts)

	for _, c := range contexts {
		assert.Equal(t, retriever.ProvenanceFilesystem, c.Provenance,
			"empty index must produce only filesystem-tagged contexts")
	}
	assert.Equal(t, "binary_search.txt", contexts[0].Source)
}

func TestRetrieve_PopulatedIndexUsesVectorPath(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "heaps.txt", "heaps keep the max at the root")

	store := newStore(t, 64)
	embedder := newEmbedder(t, 64)
	indexDocument(t, store, embedder, "heaps.txt", "heaps keep the max at the root")

	r, err := retriever.New(store, embedder, newScanner(t, root), zap.NewNop())
	require.NoError(t, err)

	contexts, err := r.Retrieve(context.Background(), "how do heaps work", 3)
	require.NoError(t, err)
	require.NotEmpty(t, contexts)
	assert.Equal(t, retriever.ProvenanceVector, contexts[0].Provenance)
	assert.Equal(t, "heaps.txt", contexts[0].Source)
}

func TestRetrieve_NilStoreScansFilesystem(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "stacks.md", "stacks are last in first out")

	r, err := retriever.New(nil, nil, newScanner(t, root), zap.NewNop())
	require.NoError(t, err)

	contexts, err := r.Retrieve(context.Background(), "stacks last first out", 3)
	require.NoError(t, err)
	require.NotEmpty(t, contexts)
	assert.Equal(t, retriever.ProvenanceFilesystem, contexts[0].Provenance)
}

func TestRetrieve_EmptyEverythingReturnsEmpty(t *testing.T) {
	store := newStore(t, 64)
	embedder := newEmbedder(t, 64)
	r, err := retriever.New(store, embedder, newScanner(t, t.TempDir()), zap.NewNop())
	require.NoError(t, err)

	contexts, err := r.Retrieve(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, contexts)
}

func TestRetrieve_BoundedByK(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		writeNote(t, root, name, "queue enqueue dequeue operations")
	}

	r, err := retriever.New(nil, nil, newScanner(t, root), zap.NewNop())
	require.NoError(t, err)

	contexts, err := r.Retrieve(context.Background(), "queue enqueue dequeue", 2)
	require.NoError(t, err)
	assert.Len(t, contexts, 2)
}

func TestRetrieve_InvalidK(t *testing.T) {
	r, err := retriever.New(nil, nil, newScanner(t, t.TempDir()), zap.NewNop())
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "question", 0)
	assert.Error(t, err)
}
