package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/pipeline/steps"
	"github.com/jonathan/resume-studio/internal/polish"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/types"
)

// GenerateRequest is one resume generation request.
type GenerateRequest struct {
	Resume types.CanonicalResume
	// Provider and Model override the configured values when set.
	Provider string
	Model    string
	// Style defaults to the configured render style.
	Style string
	// Debug skips composition and returns the polished resume as JSON.
	Debug      bool
	OnProgress ProgressCallback
}

// GenerateResult holds the produced artifacts. PDF is empty in debug mode.
type GenerateResult struct {
	PDF          []byte
	Markup       string
	Polished     *types.PolishedResume
	PolishedJSON []byte
	Style        types.RenderStyle
}

// Generate polishes, renders and composes a resume.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := s.logger.With().Str("request_id", requestID).Str("operation", "generate").Logger()
	tr := steps.NewTracker(steps.OperationGenerate)
	step := func(name, message string, fn func() error) error {
		if err := run(tr, req.OnProgress, steps.OperationGenerate, requestID, name, message, fn); err != nil {
			return &GenerationError{Stage: name, Cause: err}
		}
		return nil
	}

	var style types.RenderStyle
	err := step(steps.StepValidateResume, "Validating resume", func() error {
		if err := req.Resume.Validate(); err != nil {
			return err
		}
		styleName := req.Style
		if strings.TrimSpace(styleName) == "" {
			styleName = s.cfg.Render.Style
		}
		var err error
		style, err = types.ParseRenderStyle(styleName)
		return err
	})
	if err != nil {
		return nil, err
	}

	var client llm.Client
	err = step(steps.StepBuildClient, "Connecting to model provider", func() error {
		var err error
		client, err = s.client(ctx, req.Provider, req.Model)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close model client")
		}
	}()

	var polished *types.PolishedResume
	err = step(steps.StepPolish, "Polishing resume sections", func() error {
		p := polish.New(client, polish.Options{
			MaxConcurrency: s.cfg.LLM.MaxConcurrency,
			Logger:         observability.Component(s.root, "polish"),
		})
		var err error
		polished, err = p.Polish(ctx, req.Resume)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, f := range polished.Provenance.Failures {
		logger.Warn().Str("section", f.Section).Str("reason", f.Message).Msg("section kept original content")
	}

	result := &GenerateResult{Polished: polished, Style: style}
	err = step(steps.StepRender, fmt.Sprintf("Rendering %s template", style), func() error {
		stage := time.Now()
		markup, err := rendering.Render(polished, style)
		observability.ObserveStage("render", stage)
		result.Markup = markup
		return err
	})
	if err != nil {
		return nil, err
	}

	if req.Debug {
		data, err := json.MarshalIndent(polished, "", "  ")
		if err != nil {
			return nil, &GenerationError{Stage: steps.StepRender, Cause: fmt.Errorf("failed to encode polished resume: %w", err)}
		}
		result.PolishedJSON = data
		logger.Info().Dur("elapsed", time.Since(start)).Msg("generate complete (debug, no PDF)")
		return result, nil
	}

	err = step(steps.StepCompose, "Composing PDF", func() error {
		pdf, err := s.compositor.Compose(ctx, result.Markup)
		result.PDF = pdf
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("style", string(style)).
		Int("bytes", len(result.PDF)).
		Int("failures", len(polished.Provenance.Failures)).
		Dur("elapsed", time.Since(start)).
		Msg("generate complete")
	return result, nil
}
