package composer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitthhuu3110/dsa-sensei/internal/composer"
	"github.com/mitthhuu3110/dsa-sensei/internal/generation"
	"github.com/mitthhuu3110/dsa-sensei/internal/retriever"
)

// stubProvider lets tests force specific generation outcomes.
type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) Generate(_ context.Context, _ string, _ []string) (string, error) {
	return s.text, s.err
}

func newComposer(t *testing.T, provider generation.Provider) *composer.Composer {
	t.Helper()
	c, err := composer.New(composer.Config{}, provider, nil)
	require.NoError(t, err)
	return c
}

func sampleContexts() []retriever.Context {
	return []retriever.Context{
		{Text: "Binary search halves the search interval each step.", Source: "binary_search.txt", Score: 0.92, Provenance: retriever.ProvenanceVector},
		{Text: "It only works on sorted data.", Source: "binary_search.txt", Score: 0.85, Provenance: retriever.ProvenanceVector},
	}
}

func TestCompose_RemoteProvenance(t *testing.T) {
	c := newComposer(t, &stubProvider{text: "Binary search repeatedly halves the interval."})

	ans := c.Compose(context.Background(), "explain binary search", sampleContexts())

	assert.Equal(t, composer.ProvenanceRemote, ans.Provenance)
	assert.Equal(t, "Binary search repeatedly halves the interval.", ans.Text)
	assert.Len(t, ans.Contexts, 2)
}

func TestCompose_ProviderFailureFallsBack(t *testing.T) {
	c := newComposer(t, &stubProvider{err: errors.New("connection refused")})

	ans := c.Compose(context.Background(), "explain binary search", sampleContexts())

	assert.Equal(t, composer.ProvenanceLocalFallback, ans.Provenance)
	assert.Contains(t, ans.Text, "Based on your notes:")
	assert.Contains(t, ans.Text, "halves the search interval")
	assert.Len(t, ans.Contexts, 2)
}

func TestCompose_EmptyProviderOutputFallsBack(t *testing.T) {
	c := newComposer(t, &stubProvider{text: ""})

	ans := c.Compose(context.Background(), "explain binary search", sampleContexts())

	assert.Equal(t, composer.ProvenanceLocalFallback, ans.Provenance)
	assert.NotEmpty(t, ans.Text)
}

func TestCompose_NilProviderUsesFallback(t *testing.T) {
	c := newComposer(t, nil)

	ans := c.Compose(context.Background(), "explain binary search", sampleContexts())

	assert.Equal(t, composer.ProvenanceLocalFallback, ans.Provenance)
	assert.Contains(t, ans.Text, "Based on your notes:")
}

func TestCompose_NoContexts(t *testing.T) {
	c := newComposer(t, &stubProvider{text: "should not be called"})

	ans := c.Compose(context.Background(), "explain quantum chromodynamics", nil)

	assert.Equal(t, composer.ProvenanceLocalFallback, ans.Provenance)
	assert.Contains(t, ans.Text, "could not find anything")
	assert.Empty(t, ans.Contexts)
}

func TestCompose_TruncatesLongExcerpts(t *testing.T) {
	var seen []string
	capture := &captureProvider{out: "ok", seen: &seen}
	c, err := composer.New(composer.Config{MaxContextChars: 10}, capture, nil)
	require.NoError(t, err)

	contexts := []retriever.Context{{Text: strings.Repeat("x", 100), Source: "long.txt"}}
	ans := c.Compose(context.Background(), "q", contexts)

	assert.Equal(t, composer.ProvenanceRemote, ans.Provenance)
	require.Len(t, seen, 1)
	assert.Len(t, seen[0], 10)
}

func TestCompose_ContextBudgetIsShared(t *testing.T) {
	var seen []string
	capture := &captureProvider{out: "ok", seen: &seen}
	c, err := composer.New(composer.Config{MaxContextChars: 10}, capture, nil)
	require.NoError(t, err)

	contexts := []retriever.Context{
		{Text: strings.Repeat("a", 7), Source: "first.txt"},
		{Text: strings.Repeat("b", 7), Source: "second.txt"},
		{Text: strings.Repeat("c", 7), Source: "third.txt"},
	}
	ans := c.Compose(context.Background(), "q", contexts)

	assert.Equal(t, composer.ProvenanceRemote, ans.Provenance)
	require.Len(t, seen, 2)
	assert.Equal(t, strings.Repeat("a", 7), seen[0])
	assert.Equal(t, strings.Repeat("b", 3), seen[1])

	total := 0
	for _, ex := range seen {
		total += len([]rune(ex))
	}
	assert.Equal(t, 10, total)
}

type captureProvider struct {
	out  string
	seen *[]string
}

func (c *captureProvider) Generate(_ context.Context, _ string, excerpts []string) (string, error) {
	*c.seen = append(*c.seen, excerpts...)
	return c.out, nil
}
