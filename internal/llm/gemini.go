package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, &ConfigError{Message: "Gemini API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, &ConfigError{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier, false)
	if err != nil {
		return "", err
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractGeminiText(resp)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier, true)
	if err != nil {
		return "", err
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractGeminiText(resp)
}

// GenerateWithImages sends the prompt followed by every image in order.
func (c *GeminiClient) GenerateWithImages(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error) {
	model, err := c.model(tier, true)
	if err != nil {
		return "", err
	}

	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(prompt))
	for _, img := range images {
		parts = append(parts, genai.ImageData(imageFormat(img.MIMEType), img.Data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate multimodal content: %w", err)
	}
	return extractGeminiText(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Provider returns ProviderGemini.
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) model(tier ModelTier, jsonOut bool) (*genai.GenerativeModel, error) {
	modelName, err := requireModel(c.config, tier)
	if err != nil {
		return nil, err
	}
	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	if c.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.config.MaxTokens))
	}
	if jsonOut {
		model.ResponseMIMEType = "application/json"
	}
	return model, nil
}

// extractGeminiText extracts text from Gemini API response
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.Join(parts, ""), nil
}

// imageFormat turns "image/png" into the "png" form genai.ImageData expects.
func imageFormat(mimeType string) string {
	if format, ok := strings.CutPrefix(mimeType, "image/"); ok && format != "" {
		return format
	}
	return "png"
}
