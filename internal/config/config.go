// Package config loads resume-studio configuration from defaults, an optional
// config file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/types"
)

// EnvPrefix is prepended to every environment override, e.g. RESUME_STUDIO_LLM_PROVIDER.
const EnvPrefix = "RESUME_STUDIO"

// Config holds all application configuration.
// Precedence: environment, then config file, then defaults.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Browser BrowserConfig `mapstructure:"browser"`
	Raster  RasterConfig  `mapstructure:"raster"`
	Render  RenderConfig  `mapstructure:"render"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LLMConfig selects the provider and bounds every model call.
type LLMConfig struct {
	Provider        string `mapstructure:"provider"`
	TextModel       string `mapstructure:"textModel"`
	VisionModel     string `mapstructure:"visionModel"`
	GeminiAPIKey    string `mapstructure:"geminiApiKey"`
	OpenAIAPIKey    string `mapstructure:"openaiApiKey"`
	AnthropicAPIKey string `mapstructure:"anthropicApiKey"`
	OpenAIBaseURL   string `mapstructure:"openaiBaseUrl"`
	MaxTokens       int    `mapstructure:"maxTokens"`

	Timeout           time.Duration        `mapstructure:"timeout"`
	MaxConcurrency    int                  `mapstructure:"maxConcurrency"`
	RequestsPerSecond float64              `mapstructure:"requestsPerSecond"`
	Burst             int                  `mapstructure:"burst"`
	MaxRetries        int                  `mapstructure:"maxRetries"`
	InitialBackoff    time.Duration        `mapstructure:"initialBackoff"`
	CircuitBreaker    CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureRatio     float64       `mapstructure:"failureRatio"`
	OpenTimeout      time.Duration `mapstructure:"openTimeout"`
	HalfOpenRequests uint32        `mapstructure:"halfOpenRequests"`
}

// BrowserConfig configures the headless Chrome sessions.
type BrowserConfig struct {
	ExecPath       string        `mapstructure:"execPath"`
	SessionTimeout time.Duration `mapstructure:"sessionTimeout"`
	ViewportWidth  int           `mapstructure:"viewportWidth"`
	SegmentHeight  int           `mapstructure:"segmentHeight"`
	MaxSegments    int           `mapstructure:"maxSegments"`
	PDFScale       float64       `mapstructure:"pdfScale"`
	PDFJSURL       string        `mapstructure:"pdfjsUrl"`
	PDFJSWorkerURL string        `mapstructure:"pdfjsWorkerUrl"`
}

// RasterConfig bounds document rasterization.
type RasterConfig struct {
	MaxPages int `mapstructure:"maxPages"`
}

// RenderConfig holds renderer defaults.
type RenderConfig struct {
	Style string `mapstructure:"style"`
}

// FetchConfig configures job posting downloads.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"userAgent"`
	// RenderFallback re-fetches pages with too little static text through headless Chrome.
	RenderFallback bool `mapstructure:"renderFallback"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// conventional environment names honoured alongside the prefixed ones
var envAliases = map[string][]string{
	"llm.geminiApiKey":    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"llm.openaiApiKey":    {"OPENAI_API_KEY"},
	"llm.anthropicApiKey": {"ANTHROPIC_API_KEY"},
	"llm.openaiBaseUrl":   {"OPENAI_BASE_URL"},
	"browser.execPath":    {"CHROME_PATH"},
}

// Load reads configuration. When path is empty, resume_studio.{yaml,json} is
// looked up in the working directory and ~/.config/resume-studio; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, aliases...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("resume_studio")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/resume-studio")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks that the configuration has valid values.
// API keys are not required here; a missing key surfaces when a client is built.
func (c *Config) Validate() error {
	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := types.ParseRenderStyle(c.Render.Style); err != nil {
		return fmt.Errorf("config error: 'render.style': %w", err)
	}

	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive")
	}
	if c.LLM.MaxConcurrency <= 0 {
		return fmt.Errorf("config error: 'llm.maxConcurrency' must be positive")
	}
	if c.LLM.RequestsPerSecond < 0 || c.LLM.Burst < 0 {
		return fmt.Errorf("config error: 'llm.requestsPerSecond' and 'llm.burst' must be non-negative")
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("config error: 'llm.maxRetries' must be non-negative")
	}
	if r := c.LLM.CircuitBreaker.FailureRatio; r < 0 || r > 1 {
		return fmt.Errorf("config error: 'llm.circuitBreaker.failureRatio' must be between 0 and 1")
	}

	if c.Browser.SessionTimeout <= 0 {
		return fmt.Errorf("config error: 'browser.sessionTimeout' must be positive")
	}
	if c.Browser.PDFScale <= 0 {
		return fmt.Errorf("config error: 'browser.pdfScale' must be positive")
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.SegmentHeight <= 0 || c.Browser.MaxSegments <= 0 {
		return fmt.Errorf("config error: browser viewport, segment height and max segments must be positive")
	}
	if c.Raster.MaxPages <= 0 {
		return fmt.Errorf("config error: 'raster.maxPages' must be positive")
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("config error: 'fetch.timeout' must be positive")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil || c.Log.Level == "" {
		return fmt.Errorf("config error: invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config error: 'log.format' must be json or console")
	}
	return nil
}

// APIKeyFor returns the configured key for a provider.
func (c *LLMConfig) APIKeyFor(p llm.Provider) string {
	switch p {
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}
