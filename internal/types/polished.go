package types

import (
	"time"
)

// PolishedResume is the original resume plus model enhancements and provenance.
// The original is never mutated; enhancement slices are index-aligned with it.
type PolishedResume struct {
	Original     CanonicalResume `json:"original"`
	Enhancements Enhancements    `json:"enhancements"`
	Provenance   Provenance      `json:"provenance"`
}

// Enhancements holds polished replacements. A nil or empty slot means the
// section was not enhanced and the original content applies.
type Enhancements struct {
	Summary                 string     `json:"summary,omitempty"`
	ExperienceBullets       [][]string `json:"experience_bullets,omitempty"`
	EducationBullets        [][]string `json:"education_bullets,omitempty"`
	SkillsLine              string     `json:"skills_line,omitempty"`
	AchievementDescriptions []string   `json:"achievement_descriptions,omitempty"`
	ProjectDescriptions     []string   `json:"project_descriptions,omitempty"`
}

// Provenance records which model produced the enhancements and which sections fell back.
type Provenance struct {
	ID          string           `json:"id"`
	Provider    string           `json:"provider"`
	Model       string           `json:"model"`
	GeneratedAt time.Time        `json:"generated_at"`
	Failures    []SectionFailure `json:"failures,omitempty"`
}

// SectionFailure notes a section whose enhancement failed and was left as original.
type SectionFailure struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

// HasFailures reports whether any section fell back to its original content.
func (p Provenance) HasFailures() bool {
	return len(p.Failures) > 0
}

// ExperienceBulletsAt returns the enhanced bullets for the i-th experience entry, or nil.
func (e *Enhancements) ExperienceBulletsAt(i int) []string {
	if i < 0 || i >= len(e.ExperienceBullets) {
		return nil
	}
	return e.ExperienceBullets[i]
}

// EducationBulletsAt returns the enhanced bullets for the i-th education entry, or nil.
func (e *Enhancements) EducationBulletsAt(i int) []string {
	if i < 0 || i >= len(e.EducationBullets) {
		return nil
	}
	return e.EducationBullets[i]
}

// AchievementAt returns the polished description of the i-th achievement, or "".
func (e *Enhancements) AchievementAt(i int) string {
	if i < 0 || i >= len(e.AchievementDescriptions) {
		return ""
	}
	return e.AchievementDescriptions[i]
}

// ProjectAt returns the polished description of the i-th project, or "".
func (e *Enhancements) ProjectAt(i int) string {
	if i < 0 || i >= len(e.ProjectDescriptions) {
		return ""
	}
	return e.ProjectDescriptions[i]
}
