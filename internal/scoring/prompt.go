package scoring

import (
	"strings"

	"github.com/jonathan/resume-studio/internal/prompts"
)

const promptFile = "scoring.json"

type promptData struct {
	ImageCount     int
	JobDescription string
	Skills         []string
}

// BuildPrompt renders the analysis instruction sent with the page images.
func BuildPrompt(jobDescription string, skills []string, imageCount int) (string, error) {
	var cleaned []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return prompts.Render(promptFile, "analysis", promptData{
		ImageCount:     imageCount,
		JobDescription: strings.TrimSpace(jobDescription),
		Skills:         dedupe(cleaned),
	})
}
