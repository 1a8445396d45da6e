package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-studio/internal/compose"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/rasterize"
	"github.com/jonathan/resume-studio/internal/scoring"
	"github.com/jonathan/resume-studio/internal/types"
)

// GenerationError reports the stage at which Generate stopped.
type GenerationError struct {
	Stage string
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate failed at %s: %v", e.Stage, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ScoreError reports the stage at which Score stopped.
type ScoreError struct {
	Stage string
	Cause error
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("score failed at %s: %v", e.Stage, e.Cause)
}

func (e *ScoreError) Unwrap() error {
	return e.Cause
}

// Describe turns a pipeline error into a one-line message for CLI output.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *types.ValidationError
	var configErr *llm.ConfigError
	var rasterErr *rasterize.RasterizationError
	var renderErr *compose.RenderingError
	var analysisErr *scoring.AnalysisError

	switch {
	case errors.Is(err, rasterize.ErrNoInput):
		return "no input provided: pass a document file or resume text"
	case errors.As(err, &validationErr):
		return "invalid input: " + validationErr.Error()
	case errors.As(err, &configErr):
		return "configuration: " + configErr.Error()
	case errors.As(err, &rasterErr):
		return "could not read document: " + rasterErr.Error()
	case errors.As(err, &renderErr):
		return "could not produce PDF: " + renderErr.Error()
	case errors.As(err, &analysisErr):
		return "analysis failed: " + analysisErr.Error()
	default:
		return err.Error()
	}
}
