// Package llm abstracts the hosted language-model providers used for
// sentence feedback. Callers describe a request with a system prompt and
// an expected JSON shape; providers return schema-validated JSON.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the interface the rest of the application talks to.
type Provider interface {
	// Generate sends a prompt to the model and returns its response.
	// When the request carries a Schema, the response Content is JSON
	// validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes one model call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the user message. All calls in this application are
	// single-turn.
	Prompt string

	// Schema, when set, instructs the provider to use its native
	// structured-output mechanism and validates the result.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Zero means deterministic.
	Temperature float64
}

// Schema names and defines the JSON structure expected from the model.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	Content json.RawMessage
	Model   string
	Usage   Usage
}

// Usage tracks token consumption for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "mock".
	Provider string
	APIKey   string
	Model    string
	BaseURL  string // OpenAI-compatible endpoints only
}

// New builds a Provider from configuration.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
