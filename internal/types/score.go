package types

import "time"

// ScoreReport is the structured analysis of an existing resume against a job description.
// Every field is always present; unknown values use neutral defaults.
type ScoreReport struct {
	Total           int             `json:"total"`
	Categories      CategoryScores  `json:"categories"`
	Sections        SectionFlags    `json:"sections"`
	Keywords        KeywordCoverage `json:"keywords"`
	Readability     Readability     `json:"readability"`
	Design          DesignSignals   `json:"design"`
	Recommendations []string        `json:"recommendations"`
	Meta            ReportMeta      `json:"meta"`
}

// CategoryScore is one weighted dimension of the total.
type CategoryScore struct {
	Score       int      `json:"score"`
	Weight      int      `json:"weight"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// CategoryScores holds the five scored dimensions.
type CategoryScores struct {
	KeywordMatch        CategoryScore `json:"keyword_match"`
	StructureFormatting CategoryScore `json:"structure_formatting"`
	GrammarClarity      CategoryScore `json:"grammar_clarity"`
	ExperienceRelevance CategoryScore `json:"experience_relevance"`
	DesignLayout        CategoryScore `json:"design_layout"`
}

// SectionFlags records which standard sections were detected.
type SectionFlags struct {
	Contact        bool `json:"contact"`
	Summary        bool `json:"summary"`
	Experience     bool `json:"experience"`
	Education      bool `json:"education"`
	Skills         bool `json:"skills"`
	Projects       bool `json:"projects"`
	Achievements   bool `json:"achievements"`
	Certifications bool `json:"certifications"`
}

// KeywordCoverage lists job keywords found and missing in the resume.
type KeywordCoverage struct {
	Present         []string `json:"present"`
	Missing         []string `json:"missing"`
	CoveragePercent float64  `json:"coverage_percent"`
}

// Readability holds text metrics; nil means the model did not report the value.
type Readability struct {
	FleschReadingEase   *float64 `json:"flesch_reading_ease"`
	GradeLevel          *float64 `json:"grade_level"`
	AvgSentenceLength   *float64 `json:"avg_sentence_length"`
	PassiveVoicePercent *float64 `json:"passive_voice_percent"`
	WordCount           *int     `json:"word_count"`
}

// DesignSignals describes the visual layout as judged from the page images.
type DesignSignals struct {
	Layout          string   `json:"layout"`
	ColorUsage      string   `json:"color_usage"`
	FontConsistency string   `json:"font_consistency"`
	Whitespace      string   `json:"whitespace"`
	UsesTables      bool     `json:"uses_tables"`
	UsesGraphics    bool     `json:"uses_graphics"`
	Issues          []string `json:"issues"`
}

// ReportMeta stamps the request that produced the report.
type ReportMeta struct {
	RequestID          string       `json:"request_id"`
	GeneratedAt        time.Time    `json:"generated_at"`
	ProcessingMillis   int64        `json:"processing_ms"`
	ImageCount         int          `json:"image_count"`
	Provider           string       `json:"provider"`
	Model              string       `json:"model"`
	SourceFormat       SourceFormat `json:"source_format"`
	FileName           string       `json:"file_name"`
	ModelReportedTotal *int         `json:"model_reported_total"`
	Warnings           []string     `json:"warnings"`
}
