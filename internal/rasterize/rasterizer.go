// Package rasterize turns an uploaded resume (PDF, DOCX or plain text) into
// page images for vision models.
package rasterize

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/types"
)

// DefaultMaxPages caps the number of page images produced for a document.
const DefaultMaxPages = 10

const minPrintableRun = 4

// Capturer produces PNG images from documents in a headless browser.
// It is satisfied by *browser.Engine.
type Capturer interface {
	RenderPDFPages(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error)
	CaptureEmbeddedPDF(ctx context.Context, pdf []byte, pageCount int) ([][]byte, error)
	CaptureHTML(ctx context.Context, html string) ([][]byte, error)
}

// Input is an uploaded document, pasted text, or both. A file wins over text.
type Input struct {
	Data        []byte
	FileName    string
	ContentType string
	Text        string
}

// HasFile reports whether a file was uploaded, even an empty one.
func (in Input) HasFile() bool {
	return in.Data != nil || in.FileName != ""
}

// Options configures a Rasterizer.
type Options struct {
	MaxPages int
	Logger   zerolog.Logger
}

// Rasterizer converts documents to page images.
type Rasterizer struct {
	capturer Capturer
	maxPages int
	logger   zerolog.Logger
}

// New returns a Rasterizer backed by capturer.
func New(capturer Capturer, opts Options) *Rasterizer {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return &Rasterizer{
		capturer: capturer,
		maxPages: opts.MaxPages,
		logger:   observability.Component(opts.Logger, "rasterize"),
	}
}

// Rasterize produces one or more page images for in.
func (r *Rasterizer) Rasterize(ctx context.Context, in Input) (*types.RasterizedDocument, error) {
	if !in.HasFile() {
		if strings.TrimSpace(in.Text) == "" {
			return nil, ErrNoInput
		}
		return r.rasterizeText(ctx, in.Text, "", types.FormatText)
	}
	if len(in.Data) == 0 {
		return nil, &RasterizationError{Format: types.FormatUnknown, Reason: "uploaded file is empty"}
	}

	format := Detect(in.Data, in.FileName, in.ContentType)
	r.logger.Debug().
		Str("file", in.FileName).
		Str("format", string(format)).
		Int("bytes", len(in.Data)).
		Msg("rasterizing document")

	switch format {
	case types.FormatPDF:
		return r.rasterizePDF(ctx, in)
	case types.FormatDOCX:
		return r.rasterizeDOCX(ctx, in)
	default:
		text := PrintableText(in.Data, minPrintableRun)
		if text == "" {
			return nil, &RasterizationError{Format: format, Reason: "no readable text in file"}
		}
		return r.rasterizeText(ctx, text, in.FileName, format)
	}
}

func (r *Rasterizer) rasterizePDF(ctx context.Context, in Input) (*types.RasterizedDocument, error) {
	count, err := PDFPageCount(in.Data)
	if err != nil {
		return nil, &RasterizationError{Format: types.FormatPDF, Reason: "unreadable pdf", Cause: err}
	}
	pages := min(count, r.maxPages)

	images, err := r.capturer.RenderPDFPages(ctx, in.Data, pages)
	if err == nil && len(images) == 0 {
		err = errors.New("renderer returned no pages")
	}
	if err == nil {
		return r.finish(types.FormatPDF, in.FileName, false, images), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.logger.Warn().Err(err).Int("pages", pages).Msg("pdf page render failed, capturing viewer instead")
	observability.RasterFallbacks.Inc()

	images, ferr := r.capturer.CaptureEmbeddedPDF(ctx, in.Data, pages)
	if ferr != nil {
		return nil, &RasterizationError{Format: types.FormatPDF, Reason: "page render and viewer capture failed", Cause: errors.Join(err, ferr)}
	}
	if len(images) == 0 {
		return nil, &RasterizationError{Format: types.FormatPDF, Reason: "viewer capture produced no images"}
	}
	return r.finish(types.FormatPDF, in.FileName, true, images), nil
}

func (r *Rasterizer) rasterizeDOCX(ctx context.Context, in Input) (*types.RasterizedDocument, error) {
	markup, err := DocxToHTML(in.Data)
	if err != nil {
		return nil, &RasterizationError{Format: types.FormatDOCX, Reason: "unreadable docx", Cause: err}
	}
	images, err := r.capturer.CaptureHTML(ctx, markup)
	if err != nil {
		return nil, &RasterizationError{Format: types.FormatDOCX, Reason: "capture failed", Cause: err}
	}
	return r.finish(types.FormatDOCX, in.FileName, false, images), nil
}

func (r *Rasterizer) rasterizeText(ctx context.Context, text, fileName string, format types.SourceFormat) (*types.RasterizedDocument, error) {
	images, err := r.capturer.CaptureHTML(ctx, TextToHTML(text))
	if err != nil {
		return nil, &RasterizationError{Format: format, Reason: "capture failed", Cause: err}
	}
	return r.finish(format, fileName, false, images), nil
}

func (r *Rasterizer) finish(format types.SourceFormat, fileName string, fallback bool, images [][]byte) *types.RasterizedDocument {
	if len(images) > r.maxPages {
		images = images[:r.maxPages]
	}
	doc := &types.RasterizedDocument{
		Format:   format,
		FileName: fileName,
		Fallback: fallback,
		Pages:    make([]types.PageImage, len(images)),
	}
	for i, img := range images {
		doc.Pages[i] = types.PageImage{Index: i, MIMEType: "image/png", Data: img}
	}
	observability.RasterizedPages.WithLabelValues(string(format)).Observe(float64(len(images)))
	r.logger.Info().
		Str("format", string(format)).
		Int("pages", len(images)).
		Bool("fallback", fallback).
		Msg("document rasterized")
	return doc
}
