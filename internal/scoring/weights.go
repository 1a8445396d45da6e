// Package scoring turns a vision-model analysis of resume page images into a
// complete, internally consistent ScoreReport.
package scoring

import (
	"math"

	"github.com/jonathan/resume-studio/internal/types"
)

// Category names a weighted scoring dimension.
type Category string

// Scored categories in report order.
const (
	KeywordMatch        Category = "keyword_match"
	StructureFormatting Category = "structure_formatting"
	GrammarClarity      Category = "grammar_clarity"
	ExperienceRelevance Category = "experience_relevance"
	DesignLayout        Category = "design_layout"
)

// Categories lists every category in report order.
var Categories = []Category{KeywordMatch, StructureFormatting, GrammarClarity, ExperienceRelevance, DesignLayout}

// Weights are percentages and sum to 100.
var Weights = map[Category]int{
	KeywordMatch:        25,
	StructureFormatting: 15,
	GrammarClarity:      15,
	ExperienceRelevance: 20,
	DesignLayout:        25,
}

// Label is the human name of a category.
func (c Category) Label() string {
	switch c {
	case KeywordMatch:
		return "keyword match"
	case StructureFormatting:
		return "structure and formatting"
	case GrammarClarity:
		return "grammar and clarity"
	case ExperienceRelevance:
		return "experience relevance"
	case DesignLayout:
		return "design and layout"
	}
	return string(c)
}

// Slot returns the report field for c.
func Slot(cs *types.CategoryScores, c Category) *types.CategoryScore {
	switch c {
	case KeywordMatch:
		return &cs.KeywordMatch
	case StructureFormatting:
		return &cs.StructureFormatting
	case GrammarClarity:
		return &cs.GrammarClarity
	case ExperienceRelevance:
		return &cs.ExperienceRelevance
	case DesignLayout:
		return &cs.DesignLayout
	}
	return nil
}

// WeightedTotal is round(sum(score*weight)/100), clamped to [0,100].
// Halves round away from zero, so 68.5 becomes 69.
func WeightedTotal(cs types.CategoryScores) int {
	sum := 0
	for _, c := range Categories {
		sum += Slot(&cs, c).Score * Weights[c]
	}
	return clampScore(float64(sum) / 100)
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return int(r)
}
