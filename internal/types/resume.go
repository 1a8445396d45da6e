// Package types provides type definitions for structured data used throughout the resume-studio system.
package types

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// CanonicalResume is the structured resume a candidate submits for polishing.
type CanonicalResume struct {
	Personal     PersonalInfo  `json:"personal" validate:"required"`
	Education    []Education   `json:"education,omitempty" validate:"dive"`
	Experience   []Experience  `json:"experience,omitempty" validate:"dive"`
	Skills       []Skill       `json:"skills,omitempty" validate:"dive"`
	Projects     []Project     `json:"projects,omitempty" validate:"dive"`
	Achievements []Achievement `json:"achievements,omitempty" validate:"dive"`
}

// PersonalInfo holds contact details and the free-text summary.
type PersonalInfo struct {
	Name     string `json:"name" validate:"required"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Education is a single education entry.
type Education struct {
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,yearmonth"`
	EndDate     string `json:"end_date,omitempty" validate:"omitempty,yearmonth"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

// Experience is a single work history entry.
type Experience struct {
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,yearmonth"`
	EndDate     string `json:"end_date,omitempty" validate:"omitempty,yearmonth"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is a named skill with an optional level and category.
type Skill struct {
	Name     string `json:"name" validate:"required"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category,omitempty"`
}

// Project is a single project entry.
type Project struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"start_date,omitempty" validate:"omitempty,yearmonth"`
	EndDate      string   `json:"end_date,omitempty" validate:"omitempty,yearmonth"`
}

// Achievement is an award, certification or other recognition.
type Achievement struct {
	Title       string `json:"title" validate:"required"`
	Issuer      string `json:"issuer,omitempty"`
	Date        string `json:"date,omitempty" validate:"omitempty,yearmonth"`
	Description string `json:"description,omitempty"`
}

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

var resumeValidator = newResumeValidator()

// validYearMonth accepts YYYY-MM. Empty values are left to the omitempty tag.
func validYearMonth(fl validator.FieldLevel) bool {
	return yearMonthPattern.MatchString(fl.Field().String())
}

func newResumeValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("yearmonth", validYearMonth); err != nil {
		panic("types: register yearmonth validation: " + err.Error())
	}
	return v
}

// Validate checks identifying fields and date formats.
// It returns a *ValidationError listing every offending field.
func (r *CanonicalResume) Validate() error {
	if err := resumeValidator.Struct(r); err != nil {
		return newValidationError(err)
	}
	return nil
}

// AllSkillNames returns skill names followed by project technologies, in input order.
func (r *CanonicalResume) AllSkillNames() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	for _, p := range r.Projects {
		names = append(names, p.Technologies...)
	}
	return names
}
