package embeddings

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// defaultDimension matches the small sentence-transformer models the
// fastembed provider defaults to, so a later switch keeps index shapes.
const defaultDimension = 384

// LocalConfig holds configuration for the local hashing provider.
type LocalConfig struct {
	// Dimension is the output vector dimension. Defaults to 384.
	Dimension int
}

// LocalProvider embeds text as a hashed bag-of-words vector.
//
// Tokens are lowercased alphanumeric runs; each token is hashed into one
// of Dimension buckets with a hash-derived sign, and the vector is
// L2-normalized. No network, no model files, fully deterministic: the
// same text always yields the same vector. Quality is far below a real
// model, but cosine similarity over shared vocabulary is meaningful
// enough for a personal notes corpus.
type LocalProvider struct {
	dimension int
}

// NewLocalProvider creates a deterministic local embedding provider.
func NewLocalProvider(cfg LocalConfig) (*LocalProvider, error) {
	dim := cfg.Dimension
	if dim == 0 {
		dim = defaultDimension
	}
	if dim < 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, dim)
	}
	return &LocalProvider{dimension: dim}, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *LocalProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.embed(text), nil
}

// EmbedDocuments generates embeddings for multiple texts, preserving order.
func (p *LocalProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = p.embed(text)
	}
	return vectors, nil
}

// Dimension returns the embedding dimension.
func (p *LocalProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op for the local provider.
func (p *LocalProvider) Close() error {
	return nil
}

func (p *LocalProvider) embed(text string) []float32 {
	vec := make([]float32, p.dimension)
	for _, token := range tokenizeLocal(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		sum := h.Sum32()
		bucket := int(sum % uint32(p.dimension))
		// Hash-derived sign spreads tokens across both half-spaces,
		// which keeps unrelated texts near-orthogonal.
		if sum&0x80000000 != 0 {
			vec[bucket] -= 1
		} else {
			vec[bucket] += 1
		}
	}

	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq > 0 {
		norm := float32(1 / math.Sqrt(sumSq))
		for i := range vec {
			vec[i] *= norm
		}
	}
	return vec
}

// tokenizeLocal lowercases and splits on non-alphanumeric boundaries.
func tokenizeLocal(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
