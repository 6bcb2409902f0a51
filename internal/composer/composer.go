// Package composer turns retrieved context into a final answer. It
// prefers the configured generation provider and degrades to a local
// deterministic template when that provider is missing or failing, so
// an answer always comes back.
package composer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mitthhuu3110/dsa-sensei/internal/generation"
	"github.com/mitthhuu3110/dsa-sensei/internal/retriever"
)

// Provenance reports which path produced the answer text.
type Provenance string

const (
	// ProvenanceRemote means the configured generation provider answered.
	ProvenanceRemote Provenance = "remote"
	// ProvenanceLocalFallback means the deterministic template answered.
	ProvenanceLocalFallback Provenance = "local-fallback"
)

// noInformationMessage is returned verbatim when retrieval found nothing.
const noInformationMessage = "I could not find anything about that in your notes. " +
	"Try adding a note on the topic, or rephrase the question."

// defaultMaxContextChars bounds the total excerpt text handed to generation.
const defaultMaxContextChars = 2000

// Config holds composer configuration.
type Config struct {
	// MaxContextChars bounds the combined length of all excerpts handed
	// to generation. Contexts are consumed in retrieval order until the
	// budget runs out. Default: 2000.
	MaxContextChars int
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxContextChars == 0 {
		c.MaxContextChars = defaultMaxContextChars
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxContextChars < 0 {
		return fmt.Errorf("max context chars must be non-negative, got %d", c.MaxContextChars)
	}
	return nil
}

// Answer is a composed response with its supporting context.
type Answer struct {
	Text       string
	Contexts   []retriever.Context
	Provenance Provenance
}

// Composer composes answers from retrieved context.
type Composer struct {
	cfg      Config
	provider generation.Provider
	fallback *generation.LocalProvider
	logger   *zap.Logger
}

// New creates a Composer. The provider may be nil, in which case every
// answer takes the local fallback path.
func New(cfg Config, provider generation.Provider, logger *zap.Logger) (*Composer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid composer config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		cfg:      cfg,
		provider: provider,
		fallback: generation.NewLocalProvider(),
		logger:   logger,
	}, nil
}

// Compose builds an answer for the question from the retrieved
// contexts. It never returns an error and never returns empty text.
func (c *Composer) Compose(ctx context.Context, question string, contexts []retriever.Context) *Answer {
	if len(contexts) == 0 {
		return &Answer{
			Text:       noInformationMessage,
			Contexts:   nil,
			Provenance: ProvenanceLocalFallback,
		}
	}

	excerpts := make([]string, 0, len(contexts))
	remaining := c.cfg.MaxContextChars
	for _, rc := range contexts {
		if c.cfg.MaxContextChars > 0 && remaining <= 0 {
			break
		}
		txt := truncate(rc.Text, remaining)
		remaining -= len([]rune(txt))
		excerpts = append(excerpts, txt)
	}

	if c.provider != nil {
		text, err := c.provider.Generate(ctx, question, excerpts)
		if err == nil && text != "" {
			return &Answer{Text: text, Contexts: contexts, Provenance: ProvenanceRemote}
		}
		c.logger.Warn("generation provider failed, using local fallback",
			zap.Error(err))
	}

	text, _ := c.fallback.Generate(ctx, question, excerpts)
	return &Answer{Text: text, Contexts: contexts, Provenance: ProvenanceLocalFallback}
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
