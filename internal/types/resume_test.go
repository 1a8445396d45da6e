package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResume() CanonicalResume {
	return CanonicalResume{
		Personal: PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com", Summary: "Engineer."},
		Experience: []Experience{
			{Company: "Analytical Engines", Position: "Engineer", StartDate: "2020-01", Current: true},
		},
		Education: []Education{{Institution: "University of London", EndDate: "2019-06"}},
		Skills:    []Skill{{Name: "Go", Category: "Languages"}},
		Projects:  []Project{{Name: "Loom", Technologies: []string{"Rust", "SQL"}}},
	}
}

func TestCanonicalResume_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *CanonicalResume)
		wantErr   bool
		wantField string
	}{
		{name: "valid resume", mutate: func(*CanonicalResume) {}},
		{
			name:      "missing name",
			mutate:    func(r *CanonicalResume) { r.Personal.Name = "" },
			wantErr:   true,
			wantField: "Personal.Name",
		},
		{
			name:      "bad email",
			mutate:    func(r *CanonicalResume) { r.Personal.Email = "not-an-email" },
			wantErr:   true,
			wantField: "Personal.Email",
		},
		{
			name:      "bad date format",
			mutate:    func(r *CanonicalResume) { r.Experience[0].StartDate = "01/2020" },
			wantErr:   true,
			wantField: "Experience[0].StartDate",
		},
		{
			name:      "month out of range",
			mutate:    func(r *CanonicalResume) { r.Education[0].EndDate = "2019-13" },
			wantErr:   true,
			wantField: "Education[0].EndDate",
		},
		{
			name:      "missing company",
			mutate:    func(r *CanonicalResume) { r.Experience[0].Company = "" },
			wantErr:   true,
			wantField: "Experience[0].Company",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResume()
			tt.mutate(&r)
			err := r.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
		})
	}
}

func TestCanonicalResume_ValidateListsEveryField(t *testing.T) {
	r := CanonicalResume{
		Skills: []Skill{{Name: ""}},
	}
	err := r.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, err.Error(), "is required")
}

func TestCanonicalResume_AllSkillNames(t *testing.T) {
	r := validResume()
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, r.AllSkillNames())
}

func TestCanonicalResume_JSONRoundTripKeepsShape(t *testing.T) {
	raw := `{"personal":{"name":"Ada"},"experience":[{"company":"X","start_date":"2021-02","current":true}]}`
	var r CanonicalResume
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "Ada", r.Personal.Name)
	require.Len(t, r.Experience, 1)
	assert.True(t, r.Experience[0].Current)
	assert.NoError(t, r.Validate())
}

func TestEnhancements_Accessors(t *testing.T) {
	e := Enhancements{
		ExperienceBullets:       [][]string{nil, {"Shipped it."}},
		AchievementDescriptions: []string{"Won."},
	}
	assert.Nil(t, e.ExperienceBulletsAt(0))
	assert.Equal(t, []string{"Shipped it."}, e.ExperienceBulletsAt(1))
	assert.Nil(t, e.ExperienceBulletsAt(5))
	assert.Nil(t, e.EducationBulletsAt(0))
	assert.Equal(t, "Won.", e.AchievementAt(0))
	assert.Equal(t, "", e.AchievementAt(-1))
	assert.Equal(t, "", e.ProjectAt(0))
}

func TestProvenance_HasFailures(t *testing.T) {
	assert.False(t, Provenance{}.HasFailures())
	assert.True(t, Provenance{Failures: []SectionFailure{{Section: "summary"}}}.HasFailures())
}

func TestNewResumeValidator_RegistersYearMonth(t *testing.T) {
	v := newResumeValidator()

	assert.NoError(t, v.Var("2024-03", "yearmonth"))
	assert.Error(t, v.Var("2024-13", "yearmonth"))
	assert.Error(t, v.Var("March 2024", "yearmonth"))
}
