package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	files "github.com/jonathan/resume-studio/schemas"
)

const validResume = `{
	"personal": {"name": "Ada Lovelace", "email": "ada@example.com"},
	"experience": [{"company": "Analytical Co", "start_date": "2020-03", "current": true}],
	"skills": [{"name": "Go", "category": "Languages"}]
}`

func TestValidateBytes_CanonicalResume(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError bool
	}{
		{name: "valid resume", doc: validResume},
		{name: "missing name", doc: `{"personal": {}}`, wantError: true},
		{name: "bad date", doc: `{"personal": {"name": "A"}, "experience": [{"company": "X", "start_date": "March 2020"}]}`, wantError: true},
		{name: "wrong type", doc: `{"personal": {"name": "A"}, "skills": "Go"}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBytes(files.CanonicalResume, []byte(tt.doc))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError, got %T: %v", err, err)
			assert.Equal(t, files.CanonicalResume, validationErr.Schema)
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidateBytes_MalformedJSON(t *testing.T) {
	err := ValidateBytes(files.CanonicalResume, []byte("{ invalid json }"))
	require.Error(t, err)
	_, isValidation := err.(*ValidationError)
	assert.False(t, isValidation)
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := ValidateBytes("nope.schema.json", []byte(`{}`))
	require.Error(t, err)
	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok)
}

func TestValidate_ScoreReportRejectsOutOfRangeTotal(t *testing.T) {
	doc := map[string]any{"total": 140}
	err := Validate(files.ScoreReport, doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	fields := map[string]bool{}
	for _, fe := range validationErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["total"])
	assert.True(t, fields["(root)"], "missing required properties are reported at the root")
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(validResume), 0o644))

	assert.NoError(t, ValidateFile(files.CanonicalResume, path))

	err := ValidateFile(files.CanonicalResume, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"person": {}}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "person", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "x.schema.json",
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed against x.schema.json")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
