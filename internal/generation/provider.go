// Package generation produces answer text from a question and retrieved
// context, via a remote LLM or a deterministic local template.
package generation

import (
	"context"
	"errors"
)

// Sentinel errors for generation operations.
var (
	// ErrInvalidConfig indicates invalid provider configuration.
	ErrInvalidConfig = errors.New("invalid generation configuration")

	// ErrQuotaExceeded indicates the provider rejected the call for
	// exhausted quota. Triggers the local-fallback answer.
	ErrQuotaExceeded = errors.New("generation provider quota exceeded")

	// ErrRateLimited indicates the provider throttled the call.
	ErrRateLimited = errors.New("generation provider rate limited")

	// ErrGenerationFailed wraps any other provider failure
	// (network, timeout, malformed response).
	ErrGenerationFailed = errors.New("generation provider failed")
)

// Provider produces an answer from a question and context excerpts.
//
// Two implementations share this capability: a remote LLM that can fail
// with any of the sentinels above, and a local template that never fails.
// The choice is fixed at startup by configuration.
type Provider interface {
	Generate(ctx context.Context, question string, excerpts []string) (string, error)
}
