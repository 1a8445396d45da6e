package rasterize

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-studio/internal/types"
)

// ErrNoInput is returned when neither a file nor text was supplied.
var ErrNoInput = errors.New("no document or text provided")

// RasterizationError reports a document that could not be turned into page images.
type RasterizationError struct {
	Format types.SourceFormat
	Reason string
	Cause  error
}

func (e *RasterizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rasterize %s: %s: %v", e.Format, e.Reason, e.Cause)
	}
	return fmt.Sprintf("rasterize %s: %s", e.Format, e.Reason)
}

func (e *RasterizationError) Unwrap() error {
	return e.Cause
}
