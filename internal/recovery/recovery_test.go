package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover_Strategies(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		strategy Strategy
		key      string
		want     any
	}{
		{
			name:     "plain object",
			input:    `{"score": 80}`,
			strategy: StrategyDirect,
			key:      "score",
			want:     float64(80),
		},
		{
			name:     "fenced object",
			input:    "```json\n{\"summary\": \"Builder.\"}\n```",
			strategy: StrategyDirect,
			key:      "summary",
			want:     "Builder.",
		},
		{
			name:     "trailing comma",
			input:    `{"summary": "Builder.",}`,
			strategy: StrategyRepair,
			key:      "summary",
			want:     "Builder.",
		},
		{
			name:     "unquoted keys and single quotes",
			input:    `{summary: 'Builder.'}`,
			strategy: StrategyRepair,
			key:      "summary",
			want:     "Builder.",
		},
		{
			name:     "missing closing brace",
			input:    `{"summary": "Builder."`,
			strategy: StrategyRepair,
			key:      "summary",
			want:     "Builder.",
		},
		{
			name:     "prose around object",
			input:    `Sure! Here is the result: {"summary": "Builder."} Let me know if you need more.`,
			strategy: StrategyEmbedded,
			key:      "summary",
			want:     "Builder.",
		},
		{
			name:     "stray braces before object",
			input:    `Note: use {curly} braces. Result: {"a": 1}`,
			strategy: StrategyEmbedded,
			key:      "a",
			want:     float64(1),
		},
		{
			name:     "stray braces after object",
			input:    "{\"a\": 1}\nAlso see {x} for details.",
			strategy: StrategyEmbedded,
			key:      "a",
			want:     float64(1),
		},
		{
			name:     "object after fenced preamble",
			input:    "```text\nthinking...\n```\nAnswer: {\"a\": 1}",
			strategy: StrategyEmbedded,
			key:      "a",
			want:     float64(1),
		},
		{
			name:     "braces inside string values",
			input:    `Output: {"summary": "Uses {placeholders} in templates."} done`,
			strategy: StrategyEmbedded,
			key:      "summary",
			want:     "Uses {placeholders} in templates.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Recover(tt.input)
			require.True(t, res.IsObject(), "expected object for %q", tt.input)
			assert.Equal(t, tt.want, res.Object[tt.key])
			assert.Equal(t, tt.strategy, res.Strategy)
			assert.NotEmpty(t, res.JSON)
		})
	}
}

func TestRecover_SubstringRepair(t *testing.T) {
	res := Recover(`The analysis follows. {"total": 70, "notes": ["a", "b",]} Thanks.`)
	require.True(t, res.IsObject())
	assert.Equal(t, float64(70), res.Object["total"])
	assert.Equal(t, []any{"a", "b"}, res.Object["notes"])
}

func TestRecover_SalvageLabeledField(t *testing.T) {
	res := Recover(`summary: "Seasoned engineer who ships." and then some noise`, WithFields("summary"))
	assert.False(t, res.IsObject())
	assert.Equal(t, StrategySalvage, res.Strategy)
	assert.Equal(t, "Seasoned engineer who ships.", res.Text)
}

func TestRecover_SalvageBareLabel(t *testing.T) {
	res := Recover("Summary: Seasoned engineer who ships reliable systems", WithFields("summary"))
	assert.False(t, res.IsObject())
	assert.Equal(t, "Seasoned engineer who ships reliable systems", res.Text)
}

func TestRecover_SalvageSentences(t *testing.T) {
	res := Recover("Seasoned engineer. Ships reliable systems. Loves Go. Mentors others.")
	assert.False(t, res.IsObject())
	assert.Equal(t, "Seasoned engineer. Ships reliable systems.", res.Text)

	res = Recover("One. Two. Three.", WithMaxSentences(1))
	assert.Equal(t, "One.", res.Text)
}

func TestRecover_Empty(t *testing.T) {
	res := Recover("   ")
	assert.False(t, res.IsObject())
	assert.Equal(t, "", res.Text)
	assert.Equal(t, StrategySalvage, res.Strategy)
}

func TestRecover_ArrayIsNotAnObject(t *testing.T) {
	res := Recover(`["a", "b"]`)
	assert.False(t, res.IsObject())
}

func TestParseEmbedded(t *testing.T) {
	obj, ok := ParseEmbedded(`{"outer": {"inner": 1}} trailing`)
	require.True(t, ok)
	assert.Contains(t, obj, "outer")

	// A malformed outer object does not yield its nested object.
	_, ok = ParseEmbedded(`{"total": 70, "detail": {"x": 1}, }`)
	assert.False(t, ok)

	_, ok = ParseEmbedded(`[{"a": 1}]`)
	require.True(t, ok)

	_, ok = ParseEmbedded("no braces")
	assert.False(t, ok)
}

func TestMatchingBrace(t *testing.T) {
	assert.Equal(t, 6, matchingBrace(`{"a":1}`, 0))
	assert.Equal(t, 11, matchingBrace(`{"a":"}{\""}`, 0))
	assert.Equal(t, -1, matchingBrace(`{"a":1`, 0))
}

func TestParseSubstring_NoBraces(t *testing.T) {
	_, ok := ParseSubstring("no json here")
	assert.False(t, ok)
	_, ok = ParseSubstringRepaired("no json here")
	assert.False(t, ok)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"generic code block", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"code block with language", "```javascript\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"single line", "```json{\"key\": 1}```", `{"key": 1}`},
		{"preface before fence", "Here you go:\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain JSON", `{"key": "value"}`, `{"key": "value"}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFences(tt.input))
		})
	}
}

func TestFirstSentences(t *testing.T) {
	assert.Equal(t, "Version 2.0 shipped.", FirstSentences("Version 2.0 shipped.", 2))
	assert.Equal(t, "No terminal punctuation", FirstSentences("No terminal punctuation", 2))
	assert.Equal(t, `"summary": "Led teams." Ok?`, FirstSentences(`{"summary": "Led teams." Ok? More.}`, 1))
}
