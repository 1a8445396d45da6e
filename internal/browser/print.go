package browser

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PrintOptions controls PDF output. Sizes are in inches.
type PrintOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	Margin          float64
	PrintBackground bool
}

// A4 is the default page: 210mm x 297mm with 0.4in margins.
var A4 = PrintOptions{
	PaperWidth:      8.27,
	PaperHeight:     11.69,
	Margin:          0.4,
	PrintBackground: true,
}

// PrintToPDF loads html into a fresh session and prints it.
func (e *Engine) PrintToPDF(ctx context.Context, html string, opts PrintOptions) ([]byte, error) {
	var pdf []byte
	err := e.withSession(ctx, "print", func(s *Session) error {
		return s.Run(
			loadDocument(html),
			chromedp.ActionFunc(func(ctx context.Context) error {
				var err error
				pdf, _, err = page.PrintToPDF().
					WithPrintBackground(opts.PrintBackground).
					WithPaperWidth(opts.PaperWidth).
					WithPaperHeight(opts.PaperHeight).
					WithMarginTop(opts.Margin).
					WithMarginBottom(opts.Margin).
					WithMarginLeft(opts.Margin).
					WithMarginRight(opts.Margin).
					WithPreferCSSPageSize(true).
					Do(ctx)
				return err
			}),
		)
	})
	if err != nil {
		return nil, err
	}
	return pdf, nil
}
