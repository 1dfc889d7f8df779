package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// ClientConfig represents the configuration for the text-generation client.
type ClientConfig struct {
	Provider    string // "openai" or "ollama"
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	RateLimit   float64 // requests per second
}

// Client is an injected handle on an optional external text-generation
// service. A nil *Client is a valid, permanently unavailable client; callers
// always keep a heuristic path and never treat a failure here as fatal.
type Client struct {
	config  ClientConfig
	model   llms.Model
	limiter *rate.Limiter
}

// NewWithConfig creates a Client for the configured provider. It returns an
// error when the provider cannot be initialized (e.g. missing API key); the
// caller downgrades that to a warning and proceeds without the client.
func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Temperature <= 0 || config.Temperature > 2 {
		config.Temperature = 0.2
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 1024
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 2.0
	}

	var model llms.Model
	var err error
	switch config.Provider {
	case "ollama":
		baseURL := config.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model, err = ollama.New(ollama.WithModel(config.Model), ollama.WithServerURL(baseURL))
	case "", "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		opts := []openai.Option{openai.WithModel(config.Model)}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown provider: %q", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Client{
		config:  config,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// Available reports whether the external service can be called at all.
func (c *Client) Available() bool {
	return c != nil && c.model != nil
}

// Complete sends one prompt with a hard timeout and no retry. The returned
// error is informational only; callers fall back to heuristics on any error.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("llm not available")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	if system != "" {
		content = append([]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
		}, content...)
	}

	resp, err := c.model.GenerateContent(ctx, content,
		llms.WithTemperature(c.config.Temperature),
		llms.WithMaxTokens(c.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return resp.Choices[0].Content, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.config.Model
}
