package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/jonathan/resume-studio/internal/recovery"
	internalschemas "github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/jonathan/resume-studio/schemas"
)

const (
	minRecommendations = 3
	maxRecommendations = 10
	maxKeywordTips     = 3
)

// Meta is the provenance stamped onto a report.
type Meta struct {
	RequestID    string
	GeneratedAt  time.Time
	Elapsed      time.Duration
	ImageCount   int
	Provider     string
	Model        string
	SourceFormat types.SourceFormat
	FileName     string
}

var defaultAdvice = map[Category]string{
	KeywordMatch:        "Mirror the job description's key skills and terms in your summary and experience where they reflect real work.",
	StructureFormatting: "Use standard section headings in a conventional order so applicant tracking systems can parse the resume.",
	GrammarClarity:      "Tighten bullets into concise, active-voice statements and proofread for grammar and spelling.",
	ExperienceRelevance: "Lead each role with the responsibilities and results most relevant to the target position, quantified where possible.",
	DesignLayout:        "Keep fonts, spacing and alignment consistent and leave enough whitespace for the page to scan quickly.",
}

// Aggregate builds a complete report from a recovered analysis. The total is
// always recomputed from the category scores; the model's own total is kept
// only as meta.model_reported_total.
func Aggregate(result recovery.Result, meta Meta) (*types.ScoreReport, error) {
	if !result.IsObject() {
		return nil, &AnalysisError{Message: fmt.Sprintf("model response was not a JSON object: %q", snippet(result.Text))}
	}
	doc := gjson.Parse(result.JSON)

	report := &types.ScoreReport{}
	var warnings []string

	if err := fillCategories(doc, &report.Categories, &warnings); err != nil {
		return nil, err
	}
	report.Total = WeightedTotal(report.Categories)

	report.Sections = sections(first(doc, sectionsPaths...))
	report.Keywords = keywords(doc)
	report.Readability = readability(first(doc, readabilityPaths...))
	report.Design = design(first(doc, designPaths...))

	report.Recommendations = stringList(first(doc, recommendationPaths...), recommendationFields...)
	if len(report.Recommendations) < minRecommendations {
		warnings = append(warnings, fmt.Sprintf("model returned %d recommendations; added defaults", len(report.Recommendations)))
	}
	report.Recommendations = synthesizeRecommendations(report.Recommendations, report.Keywords.Missing, report.Categories)

	report.Meta = types.ReportMeta{
		RequestID:        meta.RequestID,
		GeneratedAt:      meta.GeneratedAt,
		ProcessingMillis: meta.Elapsed.Milliseconds(),
		ImageCount:       meta.ImageCount,
		Provider:         meta.Provider,
		Model:            meta.Model,
		SourceFormat:     meta.SourceFormat,
		FileName:         meta.FileName,
	}
	if report.Meta.RequestID == "" {
		report.Meta.RequestID = uuid.NewString()
	}
	if report.Meta.GeneratedAt.IsZero() {
		report.Meta.GeneratedAt = time.Now().UTC()
	}
	if report.Meta.SourceFormat == "" {
		report.Meta.SourceFormat = types.FormatUnknown
	}
	if v, ok := number(first(doc, totalPaths...)); ok {
		reported := int(math.Round(v))
		report.Meta.ModelReportedTotal = &reported
		if reported != report.Total {
			warnings = append(warnings, fmt.Sprintf("model reported total %d; recomputed %d from category weights", reported, report.Total))
		}
	}
	report.Meta.Warnings = append([]string{}, warnings...)

	if err := internalschemas.Validate(schemas.ScoreReport, report); err != nil {
		return nil, &AnalysisError{Message: "report failed schema validation", Cause: err}
	}
	return report, nil
}

// fillCategories reads the five categories. Missing ones take the rounded mean
// of those present; no categories at all is an error.
func fillCategories(doc gjson.Result, cs *types.CategoryScores, warnings *[]string) error {
	var missing []Category
	sum, found := 0, 0

	for _, c := range Categories {
		slot := Slot(cs, c)
		slot.Weight = Weights[c]
		slot.Suggestions = []string{}

		raw := first(doc, categoryPaths[c]...)
		scoreField := raw
		if raw.IsObject() {
			scoreField = first(raw, "score", "value", "rating")
			slot.Feedback = text(first(raw, "feedback", "comment", "summary"))
			slot.Suggestions = dedupe(stringList(first(raw, "suggestions", "improvements", "recommendations"), recommendationFields...))
		}
		v, ok := number(scoreField)
		if !ok {
			missing = append(missing, c)
			continue
		}
		slot.Score = clampScore(v)
		sum += slot.Score
		found++
	}

	if found == 0 {
		return &AnalysisError{Message: "analysis contained no category scores"}
	}
	if len(missing) > 0 {
		mean := clampScore(float64(sum) / float64(found))
		for _, c := range missing {
			Slot(cs, c).Score = mean
			*warnings = append(*warnings, fmt.Sprintf("%s score missing; defaulted to mean of reported categories (%d)", c, mean))
		}
	}
	return nil
}

// sections accepts an object of flags or an array of detected section names.
func sections(r gjson.Result) types.SectionFlags {
	if r.IsArray() {
		flags := map[string]bool{}
		for _, name := range stringList(r, "name", "section") {
			flags[strings.ToLower(name)] = true
		}
		raw, _ := json.Marshal(flags)
		r = gjson.ParseBytes(raw)
	}
	return types.SectionFlags{
		Contact:        first(r, "contact", "contact_info", "contactInfo").Bool(),
		Summary:        first(r, "summary", "professional_summary").Bool(),
		Experience:     first(r, "experience", "work_experience", "workExperience").Bool(),
		Education:      r.Get("education").Bool(),
		Skills:         r.Get("skills").Bool(),
		Projects:       r.Get("projects").Bool(),
		Achievements:   first(r, "achievements", "awards").Bool(),
		Certifications: first(r, "certifications", "certificates").Bool(),
	}
}

func keywords(doc gjson.Result) types.KeywordCoverage {
	present := dedupe(stringList(first(doc, presentKeywordPaths...), "keyword", "name"))
	missing := without(dedupe(stringList(first(doc, missingKeywordPaths...), "keyword", "name")), present)

	kc := types.KeywordCoverage{Present: present, Missing: missing}
	if total := len(present) + len(missing); total > 0 {
		kc.CoveragePercent = math.Round(float64(len(present))*1000/float64(total)) / 10
	}
	return kc
}

func readability(r gjson.Result) types.Readability {
	return types.Readability{
		FleschReadingEase:   optionalNumber(first(r, "flesch_reading_ease", "fleschReadingEase", "flesch")),
		GradeLevel:          optionalNumber(first(r, "grade_level", "gradeLevel")),
		AvgSentenceLength:   optionalNumber(first(r, "avg_sentence_length", "avgSentenceLength", "average_sentence_length")),
		PassiveVoicePercent: optionalNumber(first(r, "passive_voice_percent", "passiveVoicePercent", "passive_voice")),
		WordCount:           optionalInt(first(r, "word_count", "wordCount")),
	}
}

func design(r gjson.Result) types.DesignSignals {
	return types.DesignSignals{
		Layout:          text(first(r, "layout", "columns")),
		ColorUsage:      text(first(r, "color_usage", "colorUsage", "colour_usage")),
		FontConsistency: text(first(r, "font_consistency", "fontConsistency")),
		Whitespace:      text(first(r, "whitespace", "white_space")),
		UsesTables:      first(r, "uses_tables", "usesTables").Bool(),
		UsesGraphics:    first(r, "uses_graphics", "usesGraphics").Bool(),
		Issues:          dedupe(stringList(first(r, "issues", "problems"), recommendationFields...)),
	}
}

// synthesizeRecommendations tops recs up to the minimum from keyword gaps,
// then from the weakest categories' suggestions and default advice.
func synthesizeRecommendations(recs, missing []string, cs types.CategoryScores) []string {
	out := dedupe(recs)

	add := func(s string) {
		if len(out) >= minRecommendations {
			return
		}
		out = dedupe(append(out, s))
	}
	for i, kw := range missing {
		if i == maxKeywordTips {
			break
		}
		add(fmt.Sprintf("Add the missing keyword %q to your skills or summary where it reflects real experience.", kw))
	}

	weakest := slices.Clone(Categories)
	slices.SortStableFunc(weakest, func(a, b Category) int {
		return Slot(&cs, a).Score - Slot(&cs, b).Score
	})
	for _, c := range weakest {
		for _, s := range Slot(&cs, c).Suggestions {
			add(s)
		}
	}
	for _, c := range weakest {
		add(defaultAdvice[c])
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

func snippet(s string) string {
	const limit = 120
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
