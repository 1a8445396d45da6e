// Package rendering turns a polished resume into styled HTML markup.
package rendering

import (
	"fmt"

	"github.com/jonathan/resume-studio/internal/types"
)

// TemplateError is returned when the embedded style templates fail to parse,
// or when a style's template fails while executing against a resume.
// Style is empty for parse failures, which affect every style at once.
type TemplateError struct {
	Style types.RenderStyle
	Cause error
}

func (e *TemplateError) Error() string {
	if e.Style == "" {
		return fmt.Sprintf("template error: parse style templates: %v", e.Cause)
	}
	return fmt.Sprintf("template error: execute %s template: %v", e.Style, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError rejects a render request before any template runs: a nil
// resume or a style name outside types.AllRenderStyles.
type RenderError struct {
	Style  types.RenderStyle
	Reason string
}

func (e *RenderError) Error() string {
	if e.Style != "" {
		return fmt.Sprintf("render error: %s (style %q)", e.Reason, e.Style)
	}
	return "render error: " + e.Reason
}
