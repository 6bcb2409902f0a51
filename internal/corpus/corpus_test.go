package corpus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitthhuu3110/dsa-sensei/internal/corpus"
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

func TestDocuments_RecursiveAndSorted(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "sorting/quick_sort.md", "quicksort partitions around a pivot")
	writeNote(t, root, "arrays.txt", "arrays are contiguous memory")
	writeNote(t, root, "graphs/bfs.txt", "bfs explores level by level")

	store := corpus.NewStore(root, zap.NewNop())
	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "arrays.txt", docs[0].ID)
	assert.Equal(t, "graphs/bfs.txt", docs[1].ID)
	assert.Equal(t, "sorting/quick_sort.md", docs[2].ID)
	assert.Equal(t, "arrays are contiguous memory", docs[0].Text)
	assert.False(t, docs[0].ModTime.IsZero())
}

func TestDocuments_IgnoresNonNoteFiles(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "notes.txt", "keep me")
	writeNote(t, root, "image.png", "binary-ish")
	writeNote(t, root, "script.py", "print('no')")

	store := corpus.NewStore(root, zap.NewNop())
	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes.txt", docs[0].ID)
}

func TestDocuments_SkipsVCSDirectories(t *testing.T) {
	root := t.TempDir()
	writeNote(t, root, "keep.md", "keep")
	writeNote(t, root, ".git/objects/blob.txt", "not a note")
	writeNote(t, root, "node_modules/pkg/readme.md", "not a note either")

	store := corpus.NewStore(root, zap.NewNop())
	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "keep.md", docs[0].ID)
}

func TestDocuments_MissingRootIsEmptyCorpus(t *testing.T) {
	store := corpus.NewStore(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocuments_EmptyRoot(t *testing.T) {
	store := corpus.NewStore(t.TempDir(), zap.NewNop())
	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
