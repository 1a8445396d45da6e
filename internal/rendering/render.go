package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-studio/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	parsedOnce sync.Once
	parsed     *template.Template
	parseErr   error
)

func templates() (*template.Template, error) {
	parsedOnce.Do(func() {
		parsed, parseErr = template.New("resume").
			Funcs(template.FuncMap{"join": strings.Join}).
			ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			parseErr = &TemplateError{Cause: parseErr}
		}
	})
	return parsed, parseErr
}

// Render produces the HTML document for p in the given style. An empty style
// selects the default. The output depends only on its inputs.
func Render(p *types.PolishedResume, style types.RenderStyle) (string, error) {
	if p == nil {
		return "", &RenderError{Reason: "no resume to render"}
	}
	if style == "" {
		style = types.DefaultRenderStyle
	}
	if !style.Valid() {
		return "", &RenderError{Style: style, Reason: "unknown style"}
	}

	tmpl, err := templates()
	if err != nil {
		return "", err
	}

	doc := BuildDocument(p)
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, string(style), &doc); err != nil {
		return "", &TemplateError{Style: style, Cause: err}
	}
	return buf.String(), nil
}

// RenderOriginal renders a resume with no enhancements applied.
func RenderOriginal(r types.CanonicalResume, style types.RenderStyle) (string, error) {
	return Render(&types.PolishedResume{Original: r}, style)
}
