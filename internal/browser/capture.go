package browser

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrNoPages is returned when a render finished without producing any image.
var ErrNoPages = errors.New("no pages rendered")

type rasterState struct {
	Done  bool     `json:"done"`
	Error string   `json:"error"`
	Pages []string `json:"pages"`
}

// RenderPDFPages draws each PDF page onto a canvas with pdf.js at the configured
// upscaling factor and returns one PNG per page, in page order.
func (e *Engine) RenderPDFPages(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error) {
	if maxPages <= 0 || maxPages > e.opts.MaxSegments {
		maxPages = e.opts.MaxSegments
	}
	script, err := ScriptSource(e.opts.PDFJSURL)
	if err != nil {
		return nil, &Error{Op: "pdf render", Cause: err}
	}
	worker, err := ScriptSource(e.opts.PDFJSWorkerURL)
	if err != nil {
		return nil, &Error{Op: "pdf render", Cause: err}
	}
	html, err := PDFRenderPage(pdf, script, worker, e.opts.PDFScale, maxPages)
	if err != nil {
		return nil, err
	}

	var state rasterState
	err = e.withSession(ctx, "pdf render", func(s *Session) error {
		var done bool
		return s.Run(
			chromedp.Navigate("about:blank"),
			setDocument(html),
			chromedp.Poll(`window.__raster !== undefined && window.__raster.done === true`, &done,
				chromedp.WithPollingInterval(100*time.Millisecond),
				chromedp.WithPollingTimeout(e.opts.SessionTimeout)),
			chromedp.Evaluate(`window.__raster`, &state),
		)
	})
	if err != nil {
		return nil, err
	}
	if state.Error != "" {
		return nil, &Error{Op: "pdf render", Cause: errors.New(state.Error)}
	}
	return decodePages(state.Pages)
}

// CaptureEmbeddedPDF shows the PDF in the browser's built-in viewer and
// captures it by scrolling through the whole embedded document.
func (e *Engine) CaptureEmbeddedPDF(ctx context.Context, pdf []byte, pageCount int) ([][]byte, error) {
	if pageCount <= 0 {
		pageCount = 1
	}
	height := min(pageCount, e.opts.MaxSegments) * e.opts.SegmentHeight
	html := EmbeddedPDFPage(pdf, height)

	var images [][]byte
	err := e.withSession(ctx, "pdf viewer capture", func(s *Session) error {
		return s.Run(
			chromedp.EmulateViewport(int64(e.opts.ViewportWidth), int64(e.opts.SegmentHeight)),
			loadDocument(html),
			// The plugin paints asynchronously after load.
			chromedp.Sleep(1500*time.Millisecond),
			e.captureSegments(&images),
		)
	})
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNoPages
	}
	return images, nil
}

// CaptureHTML renders html in a fixed-width viewport and returns one PNG per
// viewport-height segment, top to bottom.
func (e *Engine) CaptureHTML(ctx context.Context, html string) ([][]byte, error) {
	var images [][]byte
	err := e.withSession(ctx, "html capture", func(s *Session) error {
		return s.Run(
			chromedp.EmulateViewport(int64(e.opts.ViewportWidth), int64(e.opts.SegmentHeight)),
			loadDocument(html),
			e.captureSegments(&images),
		)
	})
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNoPages
	}
	return images, nil
}

func (e *Engine) captureSegments(images *[][]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var height float64
		if err := chromedp.Evaluate(`Math.max(document.body.scrollHeight, document.documentElement.scrollHeight)`, &height).Do(ctx); err != nil {
			return err
		}
		for _, y := range SegmentOffsets(int(math.Ceil(height)), e.opts.SegmentHeight, e.opts.MaxSegments) {
			var ok bool
			if err := chromedp.Evaluate(fmt.Sprintf(`(window.scrollTo(0, %d), true)`, y), &ok).Do(ctx); err != nil {
				return err
			}
			buf, err := page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
			if err != nil {
				return err
			}
			*images = append(*images, buf)
		}
		return nil
	})
}

// SegmentOffsets returns the scroll offsets that cover a page of the given
// height with windows of segment pixels. The last window is aligned to the
// bottom edge, so it may overlap its predecessor.
func SegmentOffsets(height, segment, maxSegments int) []int {
	if segment <= 0 {
		return nil
	}
	if height <= segment {
		return []int{0}
	}
	var offsets []int
	last := height - segment
	for y := 0; len(offsets) < maxSegments; y += segment {
		if y >= last {
			offsets = append(offsets, last)
			break
		}
		offsets = append(offsets, y)
	}
	return offsets
}

func decodePages(encoded []string) ([][]byte, error) {
	if len(encoded) == 0 {
		return nil, ErrNoPages
	}
	out := make([][]byte, 0, len(encoded))
	for i, p := range encoded {
		data, err := base64.StdEncoding.DecodeString(p)
		if err != nil {
			return nil, &Error{Op: "pdf render", Cause: fmt.Errorf("page %d: %w", i+1, err)}
		}
		out = append(out, data)
	}
	return out, nil
}

// ScriptSource returns ref unchanged when it is an http(s), data or file URL.
// Anything else is read as a local file and returned as a base64 data URL,
// which lets pdf.js load on hosts without network access.
func ScriptSource(ref string) (string, error) {
	lower := strings.ToLower(ref)
	for _, scheme := range []string{"http://", "https://", "data:", "file://"} {
		if strings.HasPrefix(lower, scheme) {
			return ref, nil
		}
	}
	script, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read script %s: %w", ref, err)
	}
	return "data:text/javascript;base64," + base64.StdEncoding.EncodeToString(script), nil
}

// PDFRenderPage builds the document that renders pdf with pdf.js and publishes
// the page images on window.__raster.
func PDFRenderPage(pdf []byte, scriptURL, workerURL string, scale float64, maxPages int) (string, error) {
	literals, err := jsLiterals(base64.StdEncoding.EncodeToString(pdf), workerURL)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&sb, "<script src=%q></script>", scriptURL)
	sb.WriteString("</head><body><script>\n")
	sb.WriteString("window.__raster = {done: false, error: \"\", pages: []};\n")
	sb.WriteString("(async () => {\n  try {\n")
	fmt.Fprintf(&sb, "    pdfjsLib.GlobalWorkerOptions.workerSrc = %s;\n", literals[1])
	fmt.Fprintf(&sb, "    const raw = atob(%s);\n", literals[0])
	sb.WriteString("    const data = new Uint8Array(raw.length);\n")
	sb.WriteString("    for (let i = 0; i < raw.length; i++) data[i] = raw.charCodeAt(i);\n")
	sb.WriteString("    const doc = await pdfjsLib.getDocument({data}).promise;\n")
	fmt.Fprintf(&sb, "    const last = Math.min(doc.numPages, %d);\n", maxPages)
	sb.WriteString("    for (let n = 1; n <= last; n++) {\n")
	sb.WriteString("      const pg = await doc.getPage(n);\n")
	fmt.Fprintf(&sb, "      const viewport = pg.getViewport({scale: %g});\n", scale)
	sb.WriteString("      const canvas = document.createElement('canvas');\n")
	sb.WriteString("      canvas.width = Math.ceil(viewport.width);\n")
	sb.WriteString("      canvas.height = Math.ceil(viewport.height);\n")
	sb.WriteString("      const ctx = canvas.getContext('2d');\n")
	sb.WriteString("      ctx.fillStyle = '#ffffff';\n")
	sb.WriteString("      ctx.fillRect(0, 0, canvas.width, canvas.height);\n")
	sb.WriteString("      await pg.render({canvasContext: ctx, viewport}).promise;\n")
	sb.WriteString("      window.__raster.pages.push(canvas.toDataURL('image/png').split(',')[1]);\n")
	sb.WriteString("    }\n  } catch (e) {\n")
	sb.WriteString("    window.__raster.error = String((e && e.message) || e);\n")
	sb.WriteString("  }\n  window.__raster.done = true;\n})();\n</script></body></html>")
	return sb.String(), nil
}

// EmbeddedPDFPage builds a document showing pdf in an <embed> of the given height.
func EmbeddedPDFPage(pdf []byte, height int) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>html,body{margin:0;padding:0;background:#fff}embed{display:block;width:100%%;height:%dpx;border:0}</style></head><body><embed type="application/pdf" src="data:application/pdf;base64,%s"></body></html>`,
		height, base64.StdEncoding.EncodeToString(pdf))
}

func jsLiterals(values ...string) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[i] = string(b)
	}
	return out, nil
}
