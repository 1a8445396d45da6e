// Package recovery turns free-form model output into a JSON object, or, when no
// object can be recovered, into a short salvaged text answer.
//
// Strategies run in a fixed order and each one is a pure function of its input:
//
//	direct           fences stripped, strict parse
//	embedded         first object that decodes at some '{', surrounding text ignored
//	repair           permissive repair (quotes, trailing commas, unbalanced brackets)
//	substring        first '{' to last '}' of the text, strict parse
//	substring-repair the same substring, repaired
//	salvage          labeled field value or the first sentences of the text
//
// The fenced block and the raw input are both candidates: the strict
// strategies try each of them before any repair runs, so an answer written
// after a fenced preamble is still found intact.
package recovery

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Strategy names the step that produced a Result.
type Strategy string

// Strategies in the order they are attempted.
const (
	StrategyDirect          Strategy = "direct"
	StrategyEmbedded        Strategy = "embedded"
	StrategyRepair          Strategy = "repair"
	StrategySubstring       Strategy = "substring"
	StrategySubstringRepair Strategy = "substring-repair"
	StrategySalvage         Strategy = "salvage"
)

// Result is the outcome of Recover. Exactly one of Object or Text is meaningful.
type Result struct {
	Object   map[string]any
	JSON     string
	Text     string
	Strategy Strategy
}

// IsObject reports whether a JSON object was recovered.
func (r Result) IsObject() bool {
	return r.Object != nil
}

type options struct {
	fields       []string
	maxSentences int
}

// Option tunes the salvage step.
type Option func(*options)

// WithFields names labeled fields to look for when no object can be parsed.
// The first field found wins.
func WithFields(fields ...string) Option {
	return func(o *options) { o.fields = append(o.fields, fields...) }
}

// WithMaxSentences caps the sentence fallback; the default is 2.
func WithMaxSentences(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSentences = n
		}
	}
}

type objectStrategy struct {
	name Strategy
	fn   func(string) (map[string]any, bool)
}

// Strict strategies only accept valid JSON; they run over every candidate
// text before any repair is attempted.
var (
	strictStrategies = []objectStrategy{
		{StrategyDirect, ParseDirect},
		{StrategyEmbedded, ParseEmbedded},
	}
	repairStrategies = []objectStrategy{
		{StrategyRepair, ParseRepaired},
		{StrategySubstring, ParseSubstring},
		{StrategySubstringRepair, ParseSubstringRepaired},
	}
)

// Recover runs the strategy chain over raw. It never fails: the worst case is
// an empty text Result.
func Recover(raw string, opts ...Option) Result {
	o := options{maxSentences: 2}
	for _, opt := range opts {
		opt(&o)
	}

	cleaned := StripFences(raw)
	candidates := []string{cleaned}
	if trimmed := strings.TrimSpace(raw); trimmed != cleaned {
		candidates = append(candidates, trimmed)
	}
	for _, group := range [][]objectStrategy{strictStrategies, repairStrategies} {
		for _, text := range candidates {
			if res, ok := recoverObject(text, group); ok {
				return res
			}
		}
	}

	return Result{Text: Salvage(cleaned, o.fields, o.maxSentences), Strategy: StrategySalvage}
}

func recoverObject(text string, strategies []objectStrategy) (Result, bool) {
	for _, s := range strategies {
		if obj, ok := s.fn(text); ok {
			return Result{Object: obj, JSON: canonical(obj), Strategy: s.name}, true
		}
	}
	return Result{}, false
}

// ParseDirect parses text as a JSON object with no modification.
func ParseDirect(text string) (map[string]any, bool) {
	return decodeObject(text)
}

// ParseEmbedded returns the first JSON object that decodes starting at one of
// the '{' characters in text; bytes after the object are ignored. A candidate
// that fails to decode is skipped up to its matching brace, so an object nested
// inside a malformed one is left for the repair strategies.
func ParseEmbedded(text string) (map[string]any, bool) {
	for i := 0; i < len(text); {
		off := strings.IndexByte(text[i:], '{')
		if off < 0 {
			return nil, false
		}
		start := i + off

		var obj map[string]any
		if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&obj); err == nil && obj != nil {
			return obj, true
		}
		if end := matchingBrace(text, start); end > start {
			i = end + 1
		} else {
			i = start + 1
		}
	}
	return nil, false
}

// matchingBrace returns the index of the '}' closing the '{' at start, or -1.
// Braces inside double-quoted strings are ignored.
func matchingBrace(text string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseRepaired repairs text before parsing it as a JSON object.
func ParseRepaired(text string) (map[string]any, bool) {
	if !strings.Contains(text, "{") {
		return nil, false
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	return decodeObject(repaired)
}

// ParseSubstring parses the span from the first '{' to the last '}'.
func ParseSubstring(text string) (map[string]any, bool) {
	span, ok := braceSpan(text)
	if !ok {
		return nil, false
	}
	return decodeObject(span)
}

// ParseSubstringRepaired repairs the brace span before parsing. A missing
// closing brace extends the span to the end of the text.
func ParseSubstringRepaired(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return nil, false
	}
	span := text[start:]
	if end := strings.LastIndex(span, "}"); end >= 0 {
		span = span[:end+1]
	}
	return ParseRepaired(span)
}

func braceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func canonical(obj map[string]any) string {
	data, err := json.Marshal(obj)
	if err != nil {
		return "{}"
	}
	return string(data)
}
