package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/niche-finder/pkg/logger"
	"github.com/niche-finder/pkg/ratelimit"
)

const (
	// BaseURL is Groq's OpenAI-compatible endpoint
	BaseURL = "https://api.groq.com/openai/v1"
	// Model is the hosted model every request is sent to
	Model = "llama-3.3-70b-versatile"
	// MaxTokens caps the completion length
	MaxTokens = 4096
)

// CompletionOptions are the per-call sampling settings
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
}

// Option customizes the underlying OpenAI client config
type Option func(*openai.ClientConfig)

// WithBaseURL points the client at another OpenAI-compatible server.
// Only tests use this; production always talks to BaseURL.
func WithBaseURL(url string) Option {
	return func(c *openai.ClientConfig) {
		c.BaseURL = url
	}
}

// WithHTTPClient overrides the HTTP client used for completion requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *openai.ClientConfig) {
		c.HTTPClient = hc
	}
}

// Client wraps the OpenAI-compatible SDK client
type Client struct {
	client      *openai.Client
	apiKey      string
	model       string
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewClient creates a new completion client. An empty apiKey is accepted;
// Complete reports it as a ConfigError on every call.
func NewClient(apiKey string, limiter *ratelimit.MultiLimiter, log *logger.Logger, opts ...Option) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = BaseURL
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		apiKey:      apiKey,
		model:       Model,
		rateLimiter: limiter,
		log:         log.WithComponent("ai"),
	}
}

// Configured reports whether a credential is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends a system + user message pair and returns the first choice's text
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string, opts CompletionOptions) (string, error) {
	if !c.Configured() {
		return "", NewConfigError(ErrMissingAPIKey)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterGroq); err != nil {
			return "", NewUpstreamError(fmt.Errorf("rate limit error: %w", err))
		}
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = MaxTokens
	}

	c.log.Debug().
		Str("model", c.model).
		Int("max_tokens", maxTokens).
		Float32("temperature", opts.Temperature).
		Msg("Sending completion request")

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage,
			},
		},
		Temperature: opts.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("Completion API error")
		return "", NewUpstreamError(fmt.Errorf("completion API error: %w", err))
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.log.Warn().Int("choices", len(resp.Choices)).Msg("Completion returned no text")
		return "", NewUpstreamError(ErrEmptyCompletion)
	}

	c.log.Debug().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("latency", time.Since(start)).
		Msg("Received completion")

	return resp.Choices[0].Message.Content, nil
}
