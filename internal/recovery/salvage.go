package recovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	jsonNoiseChars = strings.NewReplacer("{", " ", "}", " ", "[", " ", "]", " ", `\n`, " ", `\"`, `"`)
)

// Salvage extracts a usable text answer from output that is not a JSON object.
// Labeled fields are tried first, then the first maxSentences sentences of the text.
func Salvage(text string, fields []string, maxSentences int) string {
	for _, field := range fields {
		if value, ok := labeledValue(text, field); ok {
			return value
		}
	}
	return FirstSentences(text, maxSentences)
}

func labeledValue(text, field string) (string, bool) {
	if gjson.Valid(text) {
		if v := gjson.Get(text, field); v.Exists() && v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return strings.TrimSpace(v.Str), true
		}
	}

	quoted := regexp.MustCompile(fmt.Sprintf(`(?i)["']?%s["']?\s*[:=]\s*"((?:[^"\\]|\\.)*)"`, regexp.QuoteMeta(field)))
	if m := quoted.FindStringSubmatch(text); m != nil {
		if value := strings.TrimSpace(unescape(m[1])); value != "" {
			return value, true
		}
	}

	// Label followed by bare text up to the end of the line, e.g. "Summary: ..."
	bare := regexp.MustCompile(fmt.Sprintf(`(?im)^\s*["']?%s["']?\s*:\s*([^"\n{][^\n]*)$`, regexp.QuoteMeta(field)))
	if m := bare.FindStringSubmatch(text); m != nil {
		if value := strings.Trim(strings.TrimSpace(m[1]), `",`); value != "" {
			return value, true
		}
	}
	return "", false
}

func unescape(s string) string {
	return strings.NewReplacer(`\"`, `"`, `\n`, " ", `\t`, " ", `\\`, `\`).Replace(s)
}

// FirstSentences returns up to n sentences of text with JSON punctuation and
// whitespace runs removed.
func FirstSentences(text string, n int) string {
	if n <= 0 {
		n = 2
	}
	flat := strings.TrimSpace(whitespaceRun.ReplaceAllString(jsonNoiseChars.Replace(text), " "))
	if flat == "" {
		return ""
	}

	var out strings.Builder
	count := 0
	runes := []rune(flat)
	last := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		out.WriteString(string(runes[last : i+1]))
		last = i + 1
		count++
		if count == n {
			return strings.TrimSpace(out.String())
		}
	}
	out.WriteString(string(runes[last:]))
	return strings.TrimSpace(out.String())
}
