// Package llm provides the model-invocation capability used by the polisher and the scorer.
// A Client hides which provider is configured; callers choose a tier, never a vendor.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier represents the capability a call needs.
type ModelTier string

const (
	// TierText is for text-only rewriting: summaries, bullets, skills.
	TierText ModelTier = "text"
	// TierVision is for multimodal analysis of page images.
	TierVision ModelTier = "vision"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI chat completions provider
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider maps a provider name to a Provider. Empty input yields Gemini.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	default:
		return "", &ConfigError{Message: fmt.Sprintf("unknown provider %q", s)}
	}
}

// Config holds the provider selection and per-tier models.
type Config struct {
	Provider  Provider
	Models    map[ModelTier]string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultConfigFor(ProviderGemini)
}

// DefaultConfigFor returns default models for a provider.
func DefaultConfigFor(p Provider) *Config {
	cfg := &Config{Provider: p, MaxTokens: 4096}
	switch p {
	case ProviderOpenAI:
		cfg.Models = map[ModelTier]string{TierText: "gpt-4o-mini", TierVision: "gpt-4o"}
		cfg.BaseURL = defaultOpenAIURL
	case ProviderAnthropic:
		cfg.Models = map[ModelTier]string{TierText: "claude-3-5-haiku-latest", TierVision: "claude-3-7-sonnet-latest"}
	default:
		cfg.Provider = ProviderGemini
		cfg.Models = map[ModelTier]string{TierText: "gemini-2.5-flash", TierVision: "gemini-2.5-pro"}
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// Vision models also write text; the reverse is not assumed.
	if tier != TierVision {
		if model, ok := c.Models[TierVision]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithAllModels pins every tier to one explicit model identifier.
func (c *Config) WithAllModels(model string) *Config {
	if strings.TrimSpace(model) == "" {
		return c
	}
	return c.WithModel(TierText, model).WithModel(TierVision, model)
}
