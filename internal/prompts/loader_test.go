package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("polish.json", "summary")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Summary}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("polish.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustRender_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustRender("nonexistent.json", "some-key", nil)
	})
}

func TestRender_Summary(t *testing.T) {
	out, err := Render("polish.json", "summary", map[string]string{
		"Title":   "Backend Engineer",
		"Summary": "I build APIs.",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Candidate title: Backend Engineer")
	assert.Contains(t, out, "I build APIs.")
	assert.Contains(t, out, `{"summary"`)
}

func TestRender_ProjectsJoinsTechnologies(t *testing.T) {
	type item struct {
		Name         string
		Description  string
		Technologies []string
	}
	out, err := Render("polish.json", "projects", map[string]any{
		"Items": []item{{Name: "Loom", Description: "A weaving engine.", Technologies: []string{"Go", "SQL"}}},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Return exactly 1 items")
	assert.Contains(t, out, "0. Loom [Go, SQL]: A weaving engine.")
}

func TestRender_ScoringOmitsEmptySkills(t *testing.T) {
	out, err := Render("scoring.json", "analysis", map[string]any{
		"ImageCount":     2,
		"JobDescription": "Go developer",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "attached 2 image(s)")
	assert.NotContains(t, out, "Skills the candidate asked")
	assert.Contains(t, out, `"keyword_match"`)
}

func TestList(t *testing.T) {
	keys, err := List("polish.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"achievements", "education", "experience", "projects", "skills", "summary"}, keys)
}
