package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Models drift between snake_case, camelCase, flat and wrapped layouts; each
// field is read from the first alias path that exists.
var categoryPaths = map[Category][]string{
	KeywordMatch:        aliasPaths("keyword_match", "keywordMatch"),
	StructureFormatting: aliasPaths("structure_formatting", "structureFormatting"),
	GrammarClarity:      aliasPaths("grammar_clarity", "grammarClarity"),
	ExperienceRelevance: aliasPaths("experience_relevance", "experienceRelevance"),
	DesignLayout:        aliasPaths("design_layout", "designLayout"),
}

// categoryWrappers are the objects models nest category scores under. The
// empty wrapper is the top level.
var categoryWrappers = []string{"categories", "category_scores", "categoryScores", "scores", ""}

func aliasPaths(names ...string) []string {
	paths := make([]string, 0, len(categoryWrappers)*len(names))
	for _, w := range categoryWrappers {
		for _, n := range names {
			if w == "" {
				paths = append(paths, n)
			} else {
				paths = append(paths, w+"."+n)
			}
		}
	}
	return paths
}

var (
	totalPaths           = []string{"total", "total_score", "totalScore", "overall_score", "overallScore"}
	presentKeywordPaths  = []string{"keywords.present", "keywords.matched", "keywordAnalysis.present", "keyword_analysis.present", "present_keywords"}
	missingKeywordPaths  = []string{"keywords.missing", "keywordAnalysis.missing", "keyword_analysis.missing", "missing_keywords"}
	recommendationPaths  = []string{"recommendations", "suggestions", "improvements"}
	sectionsPaths        = []string{"sections", "sectionFlags", "section_flags", "sections_present"}
	readabilityPaths     = []string{"readability", "readabilityMetrics", "readability_metrics"}
	designPaths          = []string{"design", "designSignals", "design_signals"}
	recommendationFields = []string{"text", "recommendation", "suggestion", "description"}
)

func first(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

// number reads a numeric value from numbers or numeric strings such as
// "82", "82%" or "82/100".
func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		v := r.Float()
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case gjson.String:
		s := strings.TrimSpace(r.String())
		s = strings.TrimSuffix(s, "%")
		if i := strings.Index(s, "/"); i > 0 {
			s = s[:i]
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

func optionalNumber(r gjson.Result) *float64 {
	v, ok := number(r)
	if !ok {
		return nil
	}
	v = math.Round(v*10) / 10
	return &v
}

func optionalInt(r gjson.Result) *int {
	v, ok := number(r)
	if !ok || v < 0 {
		return nil
	}
	n := int(math.Round(v))
	return &n
}

func text(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return strings.Join(strings.Fields(r.String()), " ")
}

// stringList reads an array of strings, or of objects carrying one of fields.
// A bare string becomes a single item.
func stringList(r gjson.Result, fields ...string) []string {
	var out []string
	add := func(s string) {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			out = append(out, s)
		}
	}
	switch {
	case r.IsArray():
		for _, item := range r.Array() {
			if item.IsObject() {
				add(text(first(item, fields...)))
				continue
			}
			if item.Type == gjson.String {
				add(item.String())
			}
		}
	case r.Type == gjson.String:
		add(r.String())
	}
	return out
}

// dedupe drops case-insensitive duplicates, keeping the first spelling.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func without(items, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[strings.ToLower(r)] = true
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !drop[strings.ToLower(item)] {
			out = append(out, item)
		}
	}
	return out
}
