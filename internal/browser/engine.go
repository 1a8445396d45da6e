// Package browser provides headless Chrome rendering through chromedp.
//
// Every Engine method acquires its own Session and releases it before
// returning, on success, failure or timeout alike. No browser process is
// shared between calls.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// Options configures an Engine.
type Options struct {
	// ExecPath overrides the Chrome binary. CHROME_PATH is used when empty.
	ExecPath       string
	SessionTimeout time.Duration
	// ViewportWidth and SegmentHeight define the capture window for HTML pages.
	ViewportWidth int
	SegmentHeight int
	MaxSegments   int
	// PDFScale is the upscaling factor used when drawing PDF pages to canvas.
	PDFScale float64
	// PDFJSURL and PDFJSWorkerURL locate pdf.js. Each is a URL or a local file
	// path; local files are inlined so rendering needs no network.
	PDFJSURL       string
	PDFJSWorkerURL string
	Logger         zerolog.Logger
}

// DefaultOptions returns the capture geometry used in production.
func DefaultOptions() Options {
	return Options{
		SessionTimeout: 90 * time.Second,
		ViewportWidth:  1240,
		SegmentHeight:  1754,
		MaxSegments:    20,
		PDFScale:       2.0,
		PDFJSURL:       "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/pdf.min.js",
		PDFJSWorkerURL: "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/pdf.worker.min.js",
		Logger:         zerolog.Nop(),
	}
}

// Engine launches short-lived headless browser sessions.
type Engine struct {
	opts   Options
	active atomic.Int32
}

// NewEngine creates an Engine. Zero-valued options fall back to DefaultOptions.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.SessionTimeout <= 0 {
		opts.SessionTimeout = def.SessionTimeout
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = def.ViewportWidth
	}
	if opts.SegmentHeight <= 0 {
		opts.SegmentHeight = def.SegmentHeight
	}
	if opts.MaxSegments <= 0 {
		opts.MaxSegments = def.MaxSegments
	}
	if opts.PDFScale <= 0 {
		opts.PDFScale = def.PDFScale
	}
	if opts.PDFJSURL == "" {
		opts.PDFJSURL = def.PDFJSURL
	}
	if opts.PDFJSWorkerURL == "" {
		opts.PDFJSWorkerURL = def.PDFJSWorkerURL
	}
	if opts.ExecPath == "" {
		opts.ExecPath = os.Getenv("CHROME_PATH")
	}
	return &Engine{opts: opts}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Active returns the number of sessions not yet released.
func (e *Engine) Active() int {
	return int(e.active.Load())
}

// Error wraps a browser failure with the operation that hit it.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("browser %s failed: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Session is one browser process with a bounded lifetime.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
	once    sync.Once
	engine  *Engine
}

func (e *Engine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if e.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.opts.ExecPath))
	}
	return opts
}

// Acquire starts a browser. The caller must defer Release.
func (e *Engine) Acquire(ctx context.Context) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	runCtx, timeoutCancel := context.WithTimeout(browserCtx, e.opts.SessionTimeout)

	s := &Session{
		ctx:     runCtx,
		cancels: []context.CancelFunc{timeoutCancel, browserCancel, allocCancel},
		engine:  e,
	}
	e.active.Add(1)

	// An empty Run starts the browser so launch errors surface here.
	if err := chromedp.Run(runCtx); err != nil {
		s.Release()
		return nil, &Error{Op: "launch", Cause: err}
	}
	e.opts.Logger.Debug().Msg("browser session acquired")
	return s, nil
}

// Release closes the browser. It is safe to call more than once.
func (s *Session) Release() {
	s.once.Do(func() {
		for _, cancel := range s.cancels {
			cancel()
		}
		s.engine.active.Add(-1)
		s.engine.opts.Logger.Debug().Msg("browser session released")
	})
}

// Run executes actions in the session.
func (s *Session) Run(actions ...chromedp.Action) error {
	return chromedp.Run(s.ctx, actions...)
}

// withSession acquires a session, runs fn and always releases it.
func (e *Engine) withSession(ctx context.Context, op string, fn func(*Session) error) error {
	s, err := e.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Release()

	if err := fn(s); err != nil {
		var berr *Error
		if errors.As(err, &berr) {
			return err
		}
		return &Error{Op: op, Cause: err}
	}
	return nil
}

// setDocument replaces the current page with html.
func setDocument(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
	})
}

// loadDocument navigates to a blank page, installs html and waits for fonts.
func loadDocument(html string) chromedp.Tasks {
	var fontsReady bool
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		setDocument(html),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady, awaitPromise),
	}
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
