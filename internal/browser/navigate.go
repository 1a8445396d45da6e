package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// settleDelay lets client-side rendering finish after the body is ready.
const settleDelay = 2 * time.Second

// RenderedHTML navigates to url in a fresh session and returns the DOM after
// scripts have run. Used for job boards that render postings client-side.
func (e *Engine) RenderedHTML(ctx context.Context, url string) (string, error) {
	var html string
	err := e.withSession(ctx, "navigate", func(s *Session) error {
		return s.Run(
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(settleDelay),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
	})
	if err != nil {
		return "", err
	}
	e.opts.Logger.Debug().Str("url", url).Int("bytes", len(html)).Msg("rendered remote page")
	return html, nil
}
