package llm

import (
	"context"
	"fmt"
	"strings"
)

// Image is an encoded picture passed to a multimodal call.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates content the model was asked to return as a JSON object
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateWithImages sends a prompt plus ordered images and returns the text answer
	GenerateWithImages(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error)
	// GetModel returns the provider model used for a tier
	GetModel(tier ModelTier) string
	// Provider returns the configured provider
	Provider() Provider
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
// A missing API key is reported as a *ConfigError before any network activity.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, &ConfigError{Message: fmt.Sprintf("API key is required for provider %s", config.Provider)}
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOpenAI:
		return NewOpenAIClient(config)
	case ProviderAnthropic:
		return NewAnthropicClient(config)
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("unknown provider %q", config.Provider)}
	}
}

func requireModel(config *Config, tier ModelTier) (string, error) {
	modelName := config.GetModel(tier)
	if modelName == "" {
		return "", &ConfigError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}
	return modelName, nil
}
