package polish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSummary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean", "Engineer who ships.", "Engineer who ships."},
		{"here is prefix", "Here is a polished summary: Engineer who ships.", "Engineer who ships."},
		{"the following", "The following summary highlights your strengths:\nEngineer who ships.", "Engineer who ships."},
		{"courtesy opener", "Sure! Here's the rewrite: Engineer who ships.", "Engineer who ships."},
		{"quoted", `"Engineer who ships."`, "Engineer who ships."},
		{"smart quotes", "“Engineer who ships.”", "Engineer who ships."},
		{"tail", "Engineer who ships. Let me know if you want changes.", "Engineer who ships."},
		{"whitespace", "Engineer   who\n\nships.", "Engineer who ships."},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSummary(tt.input))
		})
	}
}

func TestSanitizeSummary_CapsWords(t *testing.T) {
	long := strings.Repeat("word ", 100)
	out := SanitizeSummary(long)
	assert.Len(t, strings.Fields(out), MaxSummaryWords)

	sentences := strings.Repeat("Built reliable systems at scale. ", 20)
	out = SanitizeSummary(sentences)
	assert.LessOrEqual(t, len(strings.Fields(out)), MaxSummaryWords)
	assert.True(t, strings.HasSuffix(out, "."))
}

func TestCleanBullets(t *testing.T) {
	in := []string{"- Led a team.", "• Shipped it.", "3. Reduced costs.", "  ", "*   Mentored   juniors."}
	assert.Equal(t, []string{"Led a team.", "Shipped it.", "Reduced costs.", "Mentored juniors."}, CleanBullets(in))
}

func TestBulletsFromText_NeedsTwoLines(t *testing.T) {
	assert.Nil(t, bulletsFromText("- only one"))
	assert.Nil(t, bulletsFromText("no bullets at all"))
	assert.Equal(t, []string{"a", "b"}, bulletsFromText("- a\n- b"))
}

func TestNormalizeSkillsLine(t *testing.T) {
	assert.Equal(t, "Go, SQL, Kubernetes", NormalizeSkillsLine("Go; SQL | go, Kubernetes"))
	assert.Equal(t, "C++, C#, Node.js", NormalizeSkillsLine("C++ • C# • Node.js."))
	assert.Equal(t, "", NormalizeSkillsLine(" , ; "))
}

func TestSectionKind(t *testing.T) {
	assert.Equal(t, "experience", sectionKind("experience[3]"))
	assert.Equal(t, "summary", sectionKind("summary"))
}
