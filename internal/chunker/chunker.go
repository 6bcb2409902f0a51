// Package chunker splits documents into overlapping fixed-size passages.
package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter indicates invalid chunking parameters. This is a
// caller bug, never absorbed by the pipeline.
var ErrInvalidParameter = errors.New("invalid chunking parameters")

// Chunk is a contiguous window of a document's text.
//
// Offsets and sizes are measured in runes so multi-byte corpora chunk at
// character boundaries, not mid-codepoint.
type Chunk struct {
	// DocumentID is the identifier of the source document (relative path).
	DocumentID string

	// Index is the zero-based position of this chunk within the document.
	Index int

	// Offset is the rune offset of the chunk's first character.
	Offset int

	// Text is the chunk content.
	Text string

	// Overlap is the overlap size the chunk was produced with.
	Overlap int
}

// Split divides text into windows of size runes, advancing size-overlap
// runes per step. The trailing chunk may be shorter than size but is
// always emitted. Identical input and parameters always produce the
// identical chunk sequence.
//
// Returns ErrInvalidParameter unless 0 <= overlap < size.
func Split(documentID, text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidParameter, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidParameter, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidParameter, overlap, size)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]Chunk, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			DocumentID: documentID,
			Index:      len(chunks),
			Offset:     start,
			Text:       string(runes[start:end]),
			Overlap:    overlap,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
