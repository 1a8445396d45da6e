// Package schemas holds the JSON Schemas for the documents the pipeline reads and writes.
package schemas

import "embed"

// Schema file names.
const (
	CanonicalResume = "canonical_resume.schema.json"
	PolishedResume  = "polished_resume.schema.json"
	ScoreReport     = "score_report.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
