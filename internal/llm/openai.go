package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient implements Client using the Chat Completions HTTP API.
type OpenAIClient struct {
	config     *Config
	url        string
	httpClient *http.Client
}

// NewOpenAIClient constructs a new OpenAI client.
// Timeouts come from the caller's context rather than the http.Client.
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, &ConfigError{Message: "OpenAI API key is required"}
	}
	url := config.BaseURL
	if url == "" {
		url = defaultOpenAIURL
	}
	return &OpenAIClient{
		config:     config,
		url:        url,
		httpClient: &http.Client{},
	}, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float32               `json:"temperature"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, tier, prompt, false)
}

// GenerateJSON asks for a JSON object response.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, tier, prompt, true)
}

// GenerateWithImages sends images as base64 data URLs after the prompt text.
func (c *OpenAIClient) GenerateWithImages(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error) {
	parts := make([]openAIContentPart, 0, len(images)+1)
	parts = append(parts, openAIContentPart{Type: "text", Text: prompt})
	for _, img := range images {
		mimeType := img.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append(parts, openAIContentPart{
			Type:     "image_url",
			ImageURL: &openAIImageURL{URL: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)},
		})
	}
	return c.send(ctx, tier, []openAIMessage{{Role: "user", Content: parts}}, true)
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Provider returns ProviderOpenAI.
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Close is a no-op; the HTTP client holds no per-client resources.
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) complete(ctx context.Context, tier ModelTier, prompt string, jsonOut bool) (string, error) {
	return c.send(ctx, tier, []openAIMessage{{Role: "user", Content: prompt}}, jsonOut)
}

func (c *OpenAIClient) send(ctx context.Context, tier ModelTier, messages []openAIMessage, jsonOut bool) (string, error) {
	modelName, err := requireModel(c.config, tier)
	if err != nil {
		return "", err
	}

	reqBody := openAIRequest{
		Model:       modelName,
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   c.config.MaxTokens,
	}
	if jsonOut {
		reqBody.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode OpenAI request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OpenAI response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 300 {
			return "", &APIError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return "", fmt.Errorf("failed to decode OpenAI response: %w", err)
	}
	if resp.StatusCode >= 300 || parsed.Error != nil {
		msg := resp.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", &APIError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Message: msg}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}
