// Package pipeline provides the two top-level operations: Generate turns a
// canonical resume into a styled PDF, Score turns an uploaded CV into a score
// report against a job description.
package pipeline

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-studio/internal/browser"
	"github.com/jonathan/resume-studio/internal/compose"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/pipeline/steps"
	"github.com/jonathan/resume-studio/internal/rasterize"
	"github.com/jonathan/resume-studio/internal/scoring"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Operation string `json:"operation"`
	Step      string `json:"step"`
	Position  int    `json:"position"`
	Total     int    `json:"total"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ClientFactory builds a provider client. llm.NewClient in production.
type ClientFactory func(ctx context.Context, cfg *llm.Config) (llm.Client, error)

// Compositor turns rendered markup into PDF bytes.
type Compositor interface {
	Compose(ctx context.Context, markup string) ([]byte, error)
}

// Service runs Generate and Score. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	cfg           *config.Config
	root          zerolog.Logger
	logger        zerolog.Logger
	clientFactory ClientFactory
	rasterizer    scoring.Rasterizer
	compositor    Compositor
}

// Option customises a Service.
type Option func(*Service)

// WithClientFactory replaces llm.NewClient.
func WithClientFactory(f ClientFactory) Option {
	return func(s *Service) { s.clientFactory = f }
}

// WithRasterizer replaces the browser-backed rasterizer.
func WithRasterizer(r scoring.Rasterizer) Option {
	return func(s *Service) { s.rasterizer = r }
}

// WithCompositor replaces the browser-backed compositor.
func WithCompositor(c Compositor) Option {
	return func(s *Service) { s.compositor = c }
}

// NewService wires the production components from cfg.
func NewService(cfg *config.Config, logger zerolog.Logger, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{
		cfg:           cfg,
		root:          logger,
		logger:        observability.Component(logger, "pipeline"),
		clientFactory: llm.NewClient,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rasterizer == nil || s.compositor == nil {
		engine := browser.NewEngine(BrowserOptions(cfg.Browser, logger))
		if s.rasterizer == nil {
			s.rasterizer = rasterize.New(engine, rasterize.Options{MaxPages: cfg.Raster.MaxPages, Logger: logger})
		}
		if s.compositor == nil {
			s.compositor = compose.New(engine, compose.WithLogger(logger))
		}
	}
	return s
}

// BrowserOptions maps configuration onto the headless engine.
func BrowserOptions(c config.BrowserConfig, logger zerolog.Logger) browser.Options {
	return browser.Options{
		ExecPath:       c.ExecPath,
		SessionTimeout: c.SessionTimeout,
		ViewportWidth:  c.ViewportWidth,
		SegmentHeight:  c.SegmentHeight,
		MaxSegments:    c.MaxSegments,
		PDFScale:       c.PDFScale,
		PDFJSURL:       c.PDFJSURL,
		PDFJSWorkerURL: c.PDFJSWorkerURL,
		Logger:         observability.Component(logger, "browser"),
	}
}

// GuardOptions maps configuration onto the client guard.
func GuardOptions(c config.LLMConfig, logger zerolog.Logger) llm.GuardOptions {
	return llm.GuardOptions{
		Timeout:           c.Timeout,
		MaxRetries:        c.MaxRetries,
		InitialBackoff:    c.InitialBackoff,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		Breaker: llm.BreakerSettings{
			Enabled:          c.CircuitBreaker.Enabled,
			MinRequests:      c.CircuitBreaker.MinRequests,
			FailureRatio:     c.CircuitBreaker.FailureRatio,
			OpenTimeout:      c.CircuitBreaker.OpenTimeout,
			HalfOpenRequests: c.CircuitBreaker.HalfOpenRequests,
		},
		Logger: observability.Component(logger, "llm"),
	}
}

// LLMConfig resolves the provider client configuration. provider and model
// override the configured values when non-empty; a model override pins every tier.
func LLMConfig(c config.LLMConfig, provider, model string) (*llm.Config, error) {
	if strings.TrimSpace(provider) == "" {
		provider = c.Provider
	}
	p, err := llm.ParseProvider(provider)
	if err != nil {
		return nil, err
	}

	cfg := llm.DefaultConfigFor(p)
	if c.TextModel != "" {
		cfg = cfg.WithModel(llm.TierText, c.TextModel)
	}
	if c.VisionModel != "" {
		cfg = cfg.WithModel(llm.TierVision, c.VisionModel)
	}
	cfg = cfg.WithAllModels(model)

	cfg.APIKey = c.APIKeyFor(p)
	if p == llm.ProviderOpenAI && c.OpenAIBaseURL != "" {
		cfg.BaseURL = c.OpenAIBaseURL
	}
	if c.MaxTokens > 0 {
		cfg.MaxTokens = c.MaxTokens
	}
	return cfg, nil
}

// client builds a guarded provider client for one request.
func (s *Service) client(ctx context.Context, provider, model string) (llm.Client, error) {
	llmCfg, err := LLMConfig(s.cfg.LLM, provider, model)
	if err != nil {
		return nil, err
	}
	inner, err := s.clientFactory(ctx, llmCfg)
	if err != nil {
		return nil, err
	}
	return llm.NewGuardedClient(inner, GuardOptions(s.cfg.LLM, s.root)), nil
}

// emitProgress calls the progress callback if configured
func emitProgress(cb ProgressCallback, op steps.Operation, step string, pos, total int, requestID, message string) {
	if cb != nil {
		cb(ProgressEvent{
			Operation: string(op),
			Step:      step,
			Position:  pos,
			Total:     total,
			Message:   message,
			RequestID: requestID,
		})
	}
}

// run executes one tracked step.
func run(tr *steps.Tracker, cb ProgressCallback, op steps.Operation, requestID, step, message string, fn func() error) error {
	pos, total, err := tr.Begin(step)
	if err != nil {
		return err
	}
	emitProgress(cb, op, step, pos, total, requestID, message)
	if err := fn(); err != nil {
		return err
	}
	tr.Complete(step)
	return nil
}
