package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	excessBlank = regexp.MustCompile(`\n\n\n+`)
	bulletGlyph = regexp.MustCompile(`^[•·▪◦‣∙]\s*`)
)

// CleanText normalizes a job description while keeping its structure:
// markdown headings, bullet lists and at most one blank line between blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := excessBlank.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims one line, collapses inner whitespace and rewrites bullet
// glyphs to "- ". Leading indentation of list items is kept.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "#") {
		return innerSpace.ReplaceAllString(trimmed, " ")
	}

	trimmed = bulletGlyph.ReplaceAllString(trimmed, "- ")
	trimmed = innerSpace.ReplaceAllString(trimmed, " ")
	if isBulletLine(trimmed) {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		return strings.Repeat(" ", indent) + trimmed
	}
	return trimmed
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}
