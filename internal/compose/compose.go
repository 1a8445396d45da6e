// Package compose turns rendered resume markup into a PDF.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-studio/internal/browser"
	"github.com/jonathan/resume-studio/internal/observability"
)

var pdfMagic = []byte("%PDF-")

// PDFPrinter prints HTML to PDF. It is satisfied by *browser.Engine.
type PDFPrinter interface {
	PrintToPDF(ctx context.Context, html string, opts browser.PrintOptions) ([]byte, error)
}

// RenderingError reports a failed composition. No partial document accompanies it.
type RenderingError struct {
	Message string
	Cause   error
}

func (e *RenderingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rendering failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rendering failed: %s", e.Message)
}

func (e *RenderingError) Unwrap() error {
	return e.Cause
}

// Compositor produces the final binary document.
type Compositor struct {
	printer PDFPrinter
	page    browser.PrintOptions
	logger  zerolog.Logger
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithPage overrides the page format.
func WithPage(opts browser.PrintOptions) Option {
	return func(c *Compositor) { c.page = opts }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compositor) { c.logger = observability.Component(logger, "compose") }
}

// New returns a Compositor printing A4 pages with backgrounds.
func New(printer PDFPrinter, opts ...Option) *Compositor {
	c := &Compositor{printer: printer, page: browser.A4, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose prints markup to PDF with the fixed page format.
func (c *Compositor) Compose(ctx context.Context, markup string) ([]byte, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, &RenderingError{Message: "empty markup"}
	}

	start := time.Now()
	defer observability.ObserveStage("compose", start)

	pdf, err := c.printer.PrintToPDF(ctx, markup, c.page)
	if err != nil {
		return nil, &RenderingError{Message: "print to pdf", Cause: err}
	}
	if !bytes.HasPrefix(pdf, pdfMagic) {
		return nil, &RenderingError{Message: fmt.Sprintf("printer returned %d bytes that are not a pdf", len(pdf))}
	}

	c.logger.Debug().
		Int("bytes", len(pdf)).
		Dur("elapsed", time.Since(start)).
		Msg("document composed")
	return pdf, nil
}
