package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/rasterize"
	"github.com/jonathan/resume-studio/internal/recovery"
	"github.com/jonathan/resume-studio/internal/types"
)

// Rasterizer converts the uploaded document to page images.
type Rasterizer interface {
	Rasterize(ctx context.Context, in rasterize.Input) (*types.RasterizedDocument, error)
}

// Request is one scoring request.
type Request struct {
	Document       rasterize.Input
	JobDescription string
	Skills         []string
}

// Options configures a Scorer.
type Options struct {
	Logger zerolog.Logger
	Now    func() time.Time
}

// Scorer runs rasterize, analyse, recover and aggregate for one document.
type Scorer struct {
	client     llm.Client
	rasterizer Rasterizer
	logger     zerolog.Logger
	now        func() time.Time
}

// New returns a Scorer using client for the vision call.
func New(client llm.Client, rasterizer Rasterizer, opts Options) *Scorer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scorer{
		client:     client,
		rasterizer: rasterizer,
		logger:     observability.Component(opts.Logger, "scoring"),
		now:        opts.Now,
	}
}

// Score analyses the document against the job description.
func (s *Scorer) Score(ctx context.Context, req Request) (*types.ScoreReport, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, types.NewFieldValidationError("job_description", "is required")
	}
	start := s.now()
	requestID := uuid.NewString()
	logger := s.logger.With().Str("request_id", requestID).Logger()

	stage := time.Now()
	doc, err := s.rasterizer.Rasterize(ctx, req.Document)
	observability.ObserveStage("rasterize", stage)
	if err != nil {
		return nil, err
	}
	if doc.PageCount() == 0 {
		return nil, &rasterize.RasterizationError{Format: doc.Format, Reason: "no page images produced"}
	}

	prompt, err := BuildPrompt(req.JobDescription, req.Skills, doc.PageCount())
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring prompt: %w", err)
	}

	images := make([]llm.Image, len(doc.Pages))
	for i, p := range doc.Pages {
		images[i] = llm.Image{MIMEType: p.MIMEType, Data: p.Data}
	}

	stage = time.Now()
	raw, err := s.client.GenerateWithImages(ctx, prompt, images, llm.TierVision)
	observability.ObserveStage("analysis", stage)
	if err != nil {
		return nil, &AnalysisError{Message: "vision model call failed", Cause: err}
	}

	res := recovery.Recover(raw)
	observability.RecoveryStrategies.WithLabelValues(string(res.Strategy)).Inc()
	logger.Debug().Str("strategy", string(res.Strategy)).Msg("recovered analysis")

	report, err := Aggregate(res, Meta{
		RequestID:    requestID,
		GeneratedAt:  s.now().UTC(),
		Elapsed:      s.now().Sub(start),
		ImageCount:   doc.PageCount(),
		Provider:     string(s.client.Provider()),
		Model:        s.client.GetModel(llm.TierVision),
		SourceFormat: doc.Format,
		FileName:     doc.FileName,
	})
	if err != nil {
		return nil, err
	}

	if reported := report.Meta.ModelReportedTotal; reported != nil && *reported != report.Total {
		logger.Info().Int("reported", *reported).Int("recomputed", report.Total).Msg("model total disagrees with weighted categories")
	}
	logger.Info().
		Int("total", report.Total).
		Int("images", report.Meta.ImageCount).
		Str("format", string(report.Meta.SourceFormat)).
		Int64("elapsed_ms", report.Meta.ProcessingMillis).
		Msg("score complete")
	return report, nil
}
