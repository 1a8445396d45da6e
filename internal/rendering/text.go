package rendering

import (
	"strings"
	"time"
	"unicode"
)

// CleanText normalises user or model text for display: control characters are
// dropped, runs of whitespace collapse to a single space, and the result is trimmed.
// Markup escaping is left to html/template.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text))

	space := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case r == '\ufeff', r == '\u200b':
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && result.Len() > 0 {
			result.WriteByte(' ')
		}
		space = false
		result.WriteRune(r)
	}

	return result.String()
}

var bulletGlyphs = []string{"•", "·", "▪", "◦", "‣", "–", "—", "-", "*", "+"}

func stripBulletGlyph(line string) string {
	line = strings.TrimSpace(line)
	for _, g := range bulletGlyphs {
		if rest, ok := strings.CutPrefix(line, g); ok {
			return strings.TrimSpace(rest)
		}
	}
	return line
}

// SplitSentences derives bullets from free text. Lines are split first, then
// each line is cut after '.', '!' or '?' when followed by whitespace.
// Leading bullet glyphs are removed and empty pieces dropped.
func SplitSentences(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = stripBulletGlyph(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		start := 0
		for i, r := range runes {
			if r != '.' && r != '!' && r != '?' {
				continue
			}
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				if s := CleanText(string(runes[start : i+1])); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
		if s := CleanText(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FormatYearMonth renders "2021-03" as "Mar 2021". Other values are returned cleaned.
func FormatYearMonth(value string) string {
	value = strings.TrimSpace(value)
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return CleanText(value)
	}
	return t.Format("Jan 2006")
}

// DateRange formats a start/end pair. A current entry always ends in "Present".
func DateRange(start, end string, current bool) string {
	from := FormatYearMonth(start)
	to := FormatYearMonth(end)
	if current {
		to = "Present"
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "" || to == from:
		return from
	}
	return from + " – " + to
}
