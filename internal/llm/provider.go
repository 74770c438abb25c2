package llm

import (
	"context"

	"github.com/ppiankov/veritube/internal/model"
)

// Provider defines the interface for LLM chat-completion backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system/user prompt pair and returns the raw
	// response text. No retries are performed; each call is attempted
	// exactly once.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one LLM call
type CompletionRequest struct {
	// System is the system instruction (persona and output contract)
	System string

	// Prompt is the user message
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// Temperature controls sampling; the fact-checker runs at 0.3
	Temperature float32

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse contains the LLM's output
type CompletionResponse struct {
	// Text is the raw response content
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama or an OpenAI-compatible proxy)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float32
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Timeout:     60,
		MaxTokens:   2000,
		Temperature: 0.3,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
	}
}
