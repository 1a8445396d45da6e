package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/types"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"sentences", "Led a team. Shipped a product. Reduced costs by 20%.", []string{"Led a team.", "Shipped a product.", "Reduced costs by 20%."}},
		{"decimal kept", "Raised NPS by 3.5 points. Cut p99 latency!", []string{"Raised NPS by 3.5 points.", "Cut p99 latency!"}},
		{"lines and glyphs", "- Built APIs\n• Ran on-call\n\n* Wrote docs? Yes.", []string{"Built APIs", "Ran on-call", "Wrote docs?", "Yes."}},
		{"no terminal punctuation", "Maintained the build", []string{"Maintained the build"}},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "a b c", CleanText("  a \t b\n\nc  "))
	assert.Equal(t, "ab", CleanText("a\x00\ufeffb"))
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "Mar 2021 – Present", DateRange("2021-03", "", true))
	assert.Equal(t, "Mar 2021 – Jun 2022", DateRange("2021-03", "2022-06", false))
	assert.Equal(t, "Mar 2021", DateRange("2021-03", "", false))
	assert.Equal(t, "Jun 2022", DateRange("", "2022-06", false))
	assert.Equal(t, "", DateRange("", "", false))
	assert.Equal(t, "Summer 2019", FormatYearMonth("Summer 2019"))
}

func TestBuildDocument_Fallbacks(t *testing.T) {
	p := &types.PolishedResume{
		Original: fullResume(),
		Enhancements: types.Enhancements{
			ProjectDescriptions:     []string{""},
			AchievementDescriptions: []string{"Published the first algorithm."},
		},
	}
	doc := BuildDocument(p)

	assert.Equal(t, "Engineer who likes engines.", doc.Summary)
	assert.Equal(t, "A general purpose computer.", doc.Projects[0].Description)
	assert.Equal(t, "Published the first algorithm.", doc.Achievements[0].Description)
	assert.Equal(t, "History · Jul 1843", doc.Achievements[0].Meta)
	assert.Equal(t, "BSc in Mathematics", doc.Education[0].Heading)
	assert.Equal(t, "GPA 3.9", doc.Education[0].Detail)
	assert.Equal(t, "AL", doc.Initials())
	assert.Empty(t, doc.SkillsLine)
}
