package tutor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitthhuu3110/dsa-sensei/internal/composer"
	"github.com/mitthhuu3110/dsa-sensei/internal/corpus"
	"github.com/mitthhuu3110/dsa-sensei/internal/embeddings"
	"github.com/mitthhuu3110/dsa-sensei/internal/ingest"
	"github.com/mitthhuu3110/dsa-sensei/internal/retriever"
	"github.com/mitthhuu3110/dsa-sensei/internal/scanner"
	"github.com/mitthhuu3110/dsa-sensei/internal/tutor"
	"github.com/mitthhuu3110/dsa-sensei/internal/vectorstore"
)

// newService wires the full chain over a tiny notes corpus. With
// indexed true the notes are ingested into the vector store first;
// otherwise the store stays empty and retrieval falls back to the
// filesystem scanner.
func newService(t *testing.T, indexed bool) *tutor.Service {
	t.Helper()

	dir := t.TempDir()
	notes := map[string]string{
		"two_pointers.txt":  "The two pointers technique uses two indices moving toward each other to process arrays in linear time.",
		"binary_search.txt": "Binary search halves the search interval each step and requires sorted input.",
	}
	for name, text := range notes {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	store := corpus.NewStore(dir, nil)

	embedder, err := embeddings.NewLocalProvider(embeddings.LocalConfig{Dimension: 32})
	require.NoError(t, err)

	vs, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{VectorSize: 32}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vs.Close() })

	if indexed {
		p, err := ingest.New(ingest.Config{ChunkSize: 200, ChunkOverlap: 20}, store, embedder, vs, nil)
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		require.NoError(t, err)
	}

	sc, err := scanner.New(store, scanner.Config{}, nil)
	require.NoError(t, err)

	r, err := retriever.New(vs, embedder, sc, nil)
	require.NoError(t, err)

	c, err := composer.New(composer.Config{}, nil, nil)
	require.NoError(t, err)

	svc, err := tutor.New(tutor.Config{}, r, c, nil)
	require.NoError(t, err)
	return svc
}

func TestAnswer_FilesystemFallback(t *testing.T) {
	svc := newService(t, false)

	resp, err := svc.Answer(context.Background(), "explain the two pointers technique")
	require.NoError(t, err)

	assert.Equal(t, composer.ProvenanceLocalFallback, resp.Provenance)
	assert.Contains(t, resp.Answer, "two indices")
	require.NotEmpty(t, resp.Contexts)
	assert.Equal(t, "two_pointers.txt", resp.Contexts[0].Source)
	assert.Equal(t, retriever.ProvenanceFilesystem, resp.Contexts[0].Provenance)
}

func TestAnswer_VectorPath(t *testing.T) {
	svc := newService(t, true)

	resp, err := svc.Answer(context.Background(), "explain the two pointers technique")
	require.NoError(t, err)

	require.NotEmpty(t, resp.Contexts)
	assert.Equal(t, retriever.ProvenanceVector, resp.Contexts[0].Provenance)
	assert.NotEmpty(t, resp.Answer)
}

func TestAnswer_BlankQuestion(t *testing.T) {
	svc := newService(t, false)

	_, err := svc.Answer(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, tutor.ErrBlankQuestion)
}

func TestAnswer_NoMatches(t *testing.T) {
	svc := newService(t, false)

	resp, err := svc.Answer(context.Background(), "quantum chromodynamics lattice gauge")
	require.NoError(t, err)

	assert.Empty(t, resp.Contexts)
	assert.Contains(t, resp.Answer, "could not find anything")
}

func TestWeeklyPlan(t *testing.T) {
	svc := newService(t, false)

	tests := []struct {
		level      string
		wantTopics int
	}{
		{"beginner", 6},
		{"intermediate", 10},
		{"advanced", 10},
		{"", 6},
	}
	for _, tt := range tests {
		t.Run("level_"+tt.level, func(t *testing.T) {
			plan, err := svc.WeeklyPlan(tt.level)
			require.NoError(t, err)
			require.Len(t, plan.Weeks, 4)

			total := 0
			for _, week := range plan.Weeks {
				assert.LessOrEqual(t, len(week), 4)
				total += len(week)
			}
			assert.Equal(t, tt.wantTopics, total)
		})
	}

	plan, err := svc.WeeklyPlan("beginner")
	require.NoError(t, err)
	assert.Equal(t, []string{"Arrays", "Linked Lists", "Stacks & Queues", "Hashing"}, plan.Weeks[0])
}

func TestWeeklyPlan_UnknownLevel(t *testing.T) {
	svc := newService(t, false)

	_, err := svc.WeeklyPlan("grandmaster")
	require.Error(t, err)
	assert.ErrorIs(t, err, tutor.ErrUnknownLevel)
}

func TestInterviewQuestions(t *testing.T) {
	svc := newService(t, false)

	qs, err := svc.InterviewQuestions("binary search")
	require.NoError(t, err)
	require.Len(t, qs, 3)
	for _, q := range qs {
		assert.Contains(t, q, "binary search")
	}

	again, err := svc.InterviewQuestions("binary search")
	require.NoError(t, err)
	assert.Equal(t, qs, again)
}

func TestInterviewQuestions_BlankTopic(t *testing.T) {
	svc := newService(t, false)

	_, err := svc.InterviewQuestions("")
	require.Error(t, err)
	assert.ErrorIs(t, err, tutor.ErrBlankTopic)
}
