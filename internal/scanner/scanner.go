// Package scanner implements lexical fallback search over raw corpus files.
package scanner

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/mitthhuu3110/dsa-sensei/internal/chunker"
	"github.com/mitthhuu3110/dsa-sensei/internal/corpus"
	"go.uber.org/zap"
)

// Scoring constants. The overlap weight counts each query-token occurrence
// in a chunk once; the filename bonus is added once per query token found
// in the file name, since filenames carry strong topical signal (a
// question about "binary search" should favor binary_search.txt).
const (
	defaultOverlapWeight = 1.0
	defaultFilenameBonus = 2.5
)

// Config holds configuration for the fallback scanner.
type Config struct {
	// ChunkSize is the passage window in runes. Default: 500.
	ChunkSize int

	// ChunkOverlap is the window overlap in runes. Default: 50.
	ChunkOverlap int

	// FilenameBonus is the score added per query token appearing in the
	// document's file name. Default: 2.5.
	FilenameBonus float64
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 500
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 50
	}
	if c.FilenameBonus == 0 {
		c.FilenameBonus = defaultFilenameBonus
	}
}

// Result is a scored passage from the lexical scan.
type Result struct {
	// Text is the chunk content.
	Text string

	// Source is the document identifier (relative path).
	Source string

	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int

	// Score is the lexical relevance score. Higher is better.
	Score float64
}

// Scanner scores corpus chunks by token overlap with the query. It is
// the degraded-mode retrieval path, used when the vector index is empty
// or unreachable, so it depends on nothing but the filesystem.
type Scanner struct {
	store  *corpus.Store
	config Config
	logger *zap.Logger
}

// New creates a Scanner over the given corpus store.
func New(store *corpus.Store, config Config, logger *zap.Logger) (*Scanner, error) {
	if store == nil {
		return nil, fmt.Errorf("corpus store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	config.ApplyDefaults()
	if config.ChunkOverlap >= config.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d",
			chunker.ErrInvalidParameter, config.ChunkOverlap, config.ChunkSize)
	}
	return &Scanner{store: store, config: config, logger: logger}, nil
}

// Scan tokenizes the question, scores every chunk of every document, and
// returns the top k results. Ties break by document path then chunk index
// so repeated scans are stable. An empty corpus yields an empty slice.
func (s *Scanner) Scan(ctx context.Context, question string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	queryTokens := Tokenize(question)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	var results []Result
	for _, doc := range docs {
		nameScore := s.filenameScore(doc.ID, queryTokens)

		chunks, err := chunker.Split(doc.ID, doc.Text, s.config.ChunkSize, s.config.ChunkOverlap)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			score := overlapScore(c.Text, queryTokens) + nameScore
			if score <= 0 {
				continue
			}
			results = append(results, Result{
				Text:       c.Text,
				Source:     doc.ID,
				ChunkIndex: c.Index,
				Score:      score,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Source != results[j].Source {
			return results[i].Source < results[j].Source
		}
		return results[i].ChunkIndex < results[j].ChunkIndex
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// filenameScore returns the bonus for query tokens appearing in the
// document's base name.
func (s *Scanner) filenameScore(docID string, queryTokens []string) float64 {
	nameTokens := make(map[string]bool)
	base := strings.TrimSuffix(path.Base(docID), path.Ext(docID))
	for _, tok := range Tokenize(base) {
		nameTokens[tok] = true
	}

	var bonus float64
	for _, tok := range queryTokens {
		if nameTokens[tok] {
			bonus += s.config.FilenameBonus
		}
	}
	return bonus
}

// overlapScore counts occurrences of query tokens among chunk tokens.
func overlapScore(text string, queryTokens []string) float64 {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}

	var score float64
	for _, tok := range queryTokens {
		score += defaultOverlapWeight * float64(counts[tok])
	}
	return score
}

// stopwords are dropped from queries and chunks before scoring.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"but": true, "if": true, "then": true, "else": true, "for": true,
	"to": true, "of": true, "in": true, "on": true, "at": true,
	"by": true, "with": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "it": true,
	"this": true, "that": true, "these": true, "those": true,
	"from": true, "how": true, "what": true, "why": true, "when": true,
	"can": true, "will": true, "do": true, "does": true, "explain": true,
	"me": true, "my": true, "you": true, "your": true, "about": true,
}

// Tokenize lowercases text, splits on non-alphanumeric boundaries, and
// drops stopwords and empty tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
