// Package fetch retrieves job postings over HTTP and reduces their HTML to text.
// Pages that render client-side can be re-fetched through a headless Renderer.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-studio/internal/observability"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeStudio/1.0)"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 5 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
	// Rendered is true when HTML came from the headless Renderer.
	Rendered bool
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Renderer returns the DOM of a page after its scripts have run.
// browser.Engine implements it.
type Renderer interface {
	RenderedHTML(ctx context.Context, url string) (string, error)
}

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Renderer is used when the plain HTTP response yields too little text. Nil disables the fallback.
	Renderer Renderer
	Logger   zerolog.Logger
}

// Fetcher downloads pages. It is safe for concurrent use.
type Fetcher struct {
	client *http.Client
	opts   Options
	logger zerolog.Logger
}

// New creates a Fetcher, filling zero options with defaults.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		logger: observability.Component(opts.Logger, "fetch"),
	}
}

// validateURL accepts absolute http(s) URLs only.
func validateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	return nil
}

// Get retrieves urlStr over HTTP. On a non-200 status the partial Result is
// returned together with the error.
func (f *Fetcher) Get(ctx context.Context, urlStr string) (*Result, error) {
	if err := validateURL(urlStr); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	observability.ObserveStage("fetch", start)

	result := &Result{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	f.logger.Debug().Str("url", urlStr).Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("fetched page")

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}
