package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	defaultModel       = "gpt-4o"
	defaultTimeout     = 60 * time.Second
	defaultTemperature = 0.3
	defaultMaxTokens   = 1024
)

// Rate limiter defaults: 50 requests per minute.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// systemPrompt sets the tutor's register. The retrieved context is
// factual reference, not gospel.
const systemPrompt = "You are a friendly and motivational tutor for data structures and algorithms.\n" +
	"Explain the concept clearly, step-by-step, with intuition and motivation.\n" +
	"Use the retrieved context as factual reference.\n" +
	"Encourage the learner to stay consistent."

// RemoteConfig holds configuration for the remote generation provider.
type RemoteConfig struct {
	// BaseURL is the OpenAI-compatible endpoint.
	// Default: https://api.openai.com/v1
	BaseURL string

	// Model is the chat model. Default: gpt-4o.
	Model string

	// APIKey authenticates the calls.
	APIKey string

	// Timeout bounds each HTTP call so a dead provider degrades into the
	// local fallback instead of blocking. Default: 60s.
	Timeout time.Duration

	// Temperature controls sampling. Default: 0.3.
	Temperature float64
}

// RemoteProvider generates answers through an OpenAI-compatible chat API.
type RemoteProvider struct {
	llm         *openai.LLM
	limiter     *rate.Limiter
	temperature float64
}

// NewRemoteProvider creates a remote generation provider.
func NewRemoteProvider(cfg RemoteConfig) (*RemoteProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: remote provider requires an API key", ErrInvalidConfig)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(cfg.APIKey),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return &RemoteProvider{
		llm:         llm,
		limiter:     rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		temperature: temperature,
	}, nil
}

// Generate asks the chat model for an answer grounded in the excerpts.
func (p *RemoteProvider) Generate(ctx context.Context, question string, excerpts []string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrGenerationFailed, err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt(question, excerpts)),
	}

	resp, err := p.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(p.temperature),
		llms.WithMaxTokens(defaultMaxTokens),
	)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}
	return resp.Choices[0].Content, nil
}

// userPrompt assembles the question and context block. The excerpts are
// already bounded by the composer.
func userPrompt(question string, excerpts []string) string {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(question)
	if len(excerpts) > 0 {
		sb.WriteString("\n\nRetrieved context (may be partial, use prudently):\n")
		sb.WriteString(strings.Join(excerpts, "\n\n"))
	}
	return sb.String()
}

// classifyError maps provider error text onto the package sentinels.
// The OpenAI-compatible surface does not expose typed errors.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient_quota") || strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
}
