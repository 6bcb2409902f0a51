// Package tutor is the question-answering front of the system. It ties
// retrieval and answer composition together and adds the study helpers
// (weekly learning plans and interview drills).
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mitthhuu3110/dsa-sensei/internal/composer"
	"github.com/mitthhuu3110/dsa-sensei/internal/retriever"
)

// Sentinel errors for tutor operations.
var (
	// ErrBlankQuestion indicates an empty or whitespace-only question.
	ErrBlankQuestion = errors.New("question must not be blank")

	// ErrUnknownLevel indicates a learning-plan level outside the known set.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrBlankTopic indicates an empty interview topic.
	ErrBlankTopic = errors.New("topic must not be blank")
)

// defaultTopK is how many context chunks back an answer.
const defaultTopK = 3

// Config holds tutor service configuration.
type Config struct {
	// TopK is the number of context chunks retrieved per question.
	// Default: 3.
	TopK int
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.TopK == 0 {
		c.TopK = defaultTopK
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top k must be positive, got %d", c.TopK)
	}
	return nil
}

// Response is the tutor's answer to a question.
type Response struct {
	Answer     string
	Contexts   []retriever.Context
	Provenance composer.Provenance
	Latency    time.Duration
}

// Service answers questions against the indexed study notes.
type Service struct {
	cfg       Config
	retriever *retriever.Retriever
	composer  *composer.Composer
	logger    *zap.Logger
}

// New creates a tutor Service.
func New(cfg Config, r *retriever.Retriever, c *composer.Composer, logger *zap.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tutor config: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if c == nil {
		return nil, fmt.Errorf("composer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, retriever: r, composer: c, logger: logger}, nil
}

// Answer retrieves context for the question and composes a reply.
// Retrieval failures degrade to an empty context set rather than
// failing the request.
func (s *Service) Answer(ctx context.Context, question string) (*Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrBlankQuestion
	}

	start := time.Now()

	contexts, err := s.retriever.Retrieve(ctx, question, s.cfg.TopK)
	if err != nil {
		s.logger.Warn("retrieval failed, answering without context",
			zap.Error(err))
		contexts = nil
	}

	answer := s.composer.Compose(ctx, question, contexts)
	latency := time.Since(start)

	s.logger.Debug("question answered",
		zap.Int("contexts", len(answer.Contexts)),
		zap.String("provenance", string(answer.Provenance)),
		zap.Duration("latency", latency))

	return &Response{
		Answer:     answer.Text,
		Contexts:   answer.Contexts,
		Provenance: answer.Provenance,
		Latency:    latency,
	}, nil
}
