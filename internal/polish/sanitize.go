package polish

import (
	"regexp"
	"strings"
)

// MaxSummaryWords caps a polished summary.
const MaxSummaryWords = 70

var (
	courtesyOpener = regexp.MustCompile(`(?i)^\s*(?:sure|certainly|of course|absolutely|okay|ok)\b[!,.]?\s*`)
	metaLead       = regexp.MustCompile(`(?i)^\s*(?:here(?:'s| is| are)|the following|below is|below are)\b[^:\n]*[:\n]\s*`)
	metaTail       = regexp.MustCompile(`(?i)\s*(?:let me know|i hope this helps|feel free to)[^.!?]*[.!?]?\s*$`)
	whitespace     = regexp.MustCompile(`\s+`)
	bulletGlyph    = regexp.MustCompile(`^\s*(?:[-•*▪●◦–]|\d+[.)])\s+`)
)

// SanitizeSummary removes meta-commentary, wrapping quotes and extra whitespace
// from a model-written summary and caps it at MaxSummaryWords words.
func SanitizeSummary(text string) string {
	text = strings.TrimSpace(text)
	for {
		before := text
		text = courtesyOpener.ReplaceAllString(text, "")
		text = metaLead.ReplaceAllString(text, "")
		text = metaTail.ReplaceAllString(text, "")
		text = trimQuotes(strings.TrimSpace(text))
		if text == before {
			break
		}
	}
	text = whitespace.ReplaceAllString(text, " ")
	return capWords(text, MaxSummaryWords)
}

func trimQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[:1], s[len(s)-1:]
		if !(first == `"` && last == `"`) && !(first == "'" && last == "'") &&
			!(strings.HasPrefix(s, "“") && strings.HasSuffix(s, "”")) {
			return s
		}
		if strings.HasPrefix(s, "“") {
			s = strings.TrimSuffix(strings.TrimPrefix(s, "“"), "”")
		} else {
			s = s[1 : len(s)-1]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

// capWords keeps at most n words. When the cut lands mid-sentence and an
// earlier sentence boundary exists, the text ends at that boundary.
func capWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	cut := strings.Join(words[:n], " ")
	if idx := strings.LastIndexAny(cut, ".!?"); idx > len(cut)/2 {
		return cut[:idx+1]
	}
	return cut
}

// CleanBullets trims bullets, strips leading glyphs or numbering and drops empties.
func CleanBullets(bullets []string) []string {
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		b = bulletGlyph.ReplaceAllString(b, "")
		b = strings.TrimSpace(whitespace.ReplaceAllString(b, " "))
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

// bulletsFromText accepts plain-text output that lists at least two bullet lines.
func bulletsFromText(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if bulletGlyph.MatchString(line) {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}
	return CleanBullets(lines)
}

var skillSeparators = regexp.MustCompile(`\s*(?:[,;|•\n]|\s-\s)\s*`)

// NormalizeSkillsLine splits a skills answer on common separators, removes
// duplicates case-insensitively and joins the result with ", ".
func NormalizeSkillsLine(text string) string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range skillSeparators.Split(text, -1) {
		part = strings.Trim(strings.TrimSpace(part), `."'`)
		key := strings.ToLower(part)
		if part == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, part)
	}
	return strings.Join(out, ", ")
}
