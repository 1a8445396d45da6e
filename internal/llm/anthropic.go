package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for Claude models.
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Claude client
func NewAnthropicClient(config *Config) (*AnthropicClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, &ConfigError{Message: "Anthropic API key is required"}
	}
	opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(config.BaseURL))
	}
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.send(ctx, tier, anthropic.NewTextBlock(prompt))
}

// GenerateJSON generates JSON content. Claude has no JSON mode, so the prompt carries the instruction.
func (c *AnthropicClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.send(ctx, tier, anthropic.NewTextBlock(prompt))
}

// GenerateWithImages sends images as base64 blocks after the prompt text.
func (c *AnthropicClient) GenerateWithImages(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(images)+1)
	blocks = append(blocks, anthropic.NewTextBlock(prompt))
	for _, img := range images {
		mimeType := img.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		blocks = append(blocks, anthropic.NewImageBlockBase64(mimeType, base64.StdEncoding.EncodeToString(img.Data)))
	}
	return c.send(ctx, tier, blocks...)
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Provider returns ProviderAnthropic.
func (c *AnthropicClient) Provider() Provider {
	return ProviderAnthropic
}

// Close is a no-op for the HTTP-based SDK client.
func (c *AnthropicClient) Close() error {
	return nil
}

func (c *AnthropicClient) send(ctx context.Context, tier ModelTier, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	modelName, err := requireModel(c.config, tier)
	if err != nil {
		return "", err
	}
	maxTokens := c.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(0.2),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
