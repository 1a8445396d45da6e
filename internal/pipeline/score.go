package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/pipeline/steps"
	"github.com/jonathan/resume-studio/internal/rasterize"
	"github.com/jonathan/resume-studio/internal/scoring"
	"github.com/jonathan/resume-studio/internal/types"
)

// ScoreRequest is one CV scoring request.
type ScoreRequest struct {
	Document       rasterize.Input
	JobDescription string
	Skills         []string
	Provider       string
	Model          string
	OnProgress     ProgressCallback
}

// Score rasterizes the document and scores it against the job description.
func (s *Service) Score(ctx context.Context, req ScoreRequest) (*types.ScoreReport, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := s.logger.With().Str("request_id", requestID).Str("operation", "score").Logger()
	tr := steps.NewTracker(steps.OperationScore)
	step := func(name, message string, fn func() error) error {
		if err := run(tr, req.OnProgress, steps.OperationScore, requestID, name, message, fn); err != nil {
			return &ScoreError{Stage: name, Cause: err}
		}
		return nil
	}

	err := step(steps.StepValidateRequest, "Validating request", func() error {
		if !req.Document.HasFile() && strings.TrimSpace(req.Document.Text) == "" {
			return rasterize.ErrNoInput
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			return types.NewFieldValidationError("job_description", "is required")
		}
		return nil
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

	var report *types.ScoreReport
	err = step(steps.StepScore, "Analysing document", func() error {
		scorer := scoring.New(client, s.rasterizer, scoring.Options{Logger: s.root})
		var err error
		report, err = scorer.Score(ctx, scoring.Request{
			Document:       req.Document,
			JobDescription: req.JobDescription,
			Skills:         req.Skills,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.ObserveStage("score", start)
	logger.Debug().Int("total", report.Total).Dur("elapsed", time.Since(start)).Msg("score request finished")
	return report, nil
}
