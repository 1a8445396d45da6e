package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// Shorter text suggests a JavaScript-rendered page.
const MinContentLength = 500

// ShouldRender reports whether the extracted text is too short to be a posting.
func ShouldRender(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

const globalNoise = "nav, footer, header, script, style, noscript, svg, iframe, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

const blockElements = "p, div, section, article, h1, h2, h3, h4, h5, h6, tr, dt, dd, blockquote, pre"

// ExtractMainText parses HTML and returns the main body text, one block per line.
// Noise is removed first, then the first matching content selector is used;
// the body is the fallback. List items are prefixed with "- ".
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(globalNoise).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	mainContent.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
		s.AppendHtml("\n")
	})
	mainContent.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	mainContent.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})

	return cleanWhitespace(mainContent.Text()), nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// JobPostingSelectors returns selectors optimized for job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims every line, collapses inner runs of spaces and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// Posting is the text of a job posting page.
type Posting struct {
	Result   *Result
	Platform Platform
	Text     string
}

// FetchPosting fetches a job posting and extracts its text with platform-specific
// selectors, re-rendering through the Renderer when the page is mostly script.
func (f *Fetcher) FetchPosting(ctx context.Context, urlStr string) (*Posting, error) {
	platform := DetectPlatform(urlStr)
	content, noise := PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)
	logger := f.logger.With().Str("url", urlStr).Str("platform", string(platform)).Logger()

	result, err := f.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if ShouldRender(text) && f.opts.Renderer != nil {
		logger.Info().Int("chars", len(text)).Msg("posting text too short, rendering in browser")
		html, rerr := f.opts.Renderer.RenderedHTML(ctx, urlStr)
		if rerr != nil {
			logger.Warn().Err(rerr).Msg("browser rendering failed, keeping HTTP content")
		} else if rendered, xerr := ExtractMainText(html, content, noise...); xerr == nil && len(rendered) > len(text) {
			text = rendered
			result = &Result{URL: urlStr, HTML: html, ContentType: "text/html", StatusCode: result.StatusCode, Rendered: true}
		}
	}

	logger.Debug().Int("chars", len(text)).Bool("rendered", result.Rendered).Msg("extracted posting text")
	return &Posting{Result: result, Platform: platform, Text: text}, nil
}
