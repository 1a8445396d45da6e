// Package observability provides structured logging, Prometheus metrics and
// formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines on rune boundaries
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintPolished outputs which sections were enhanced and which kept their original text.
func (p *Printer) PrintPolished(polished *types.PolishedResume) {
	if polished == nil {
		return
	}

	var sb strings.Builder
	enh := polished.Enhancements
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", polished.Original.Personal.Name))
	sb.WriteString(fmt.Sprintf("Model:     %s (%s)\n", polished.Provenance.Model, polished.Provenance.Provider))
	sb.WriteString("\n")

	if enh.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:   %s\n", enh.Summary))
	}
	bullets := 0
	for _, b := range enh.ExperienceBullets {
		bullets += len(b)
	}
	for _, b := range enh.EducationBullets {
		bullets += len(b)
	}
	sb.WriteString(fmt.Sprintf("Bullets:   %d rewritten\n", bullets))
	if enh.SkillsLine != "" {
		sb.WriteString(fmt.Sprintf("Skills:    %s\n", enh.SkillsLine))
	}

	if polished.Provenance.HasFailures() {
		failed := make([]string, 0, len(polished.Provenance.Failures))
		for _, f := range polished.Provenance.Failures {
			failed = append(failed, fmt.Sprintf("%s: %s", f.Section, f.Message))
		}
		sb.WriteString("\n")
		writeList(&sb, "Kept original", failed, maxItemsToShow)
	}

	p.printBox("POLISHED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScoreReport outputs the total, category breakdown and top recommendations.
func (p *Printer) PrintScoreReport(report *types.ScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:     %d / 100\n", report.Total))
	if r := report.Meta.ModelReportedTotal; r != nil && *r != report.Total {
		sb.WriteString(fmt.Sprintf("           (model reported %d)\n", *r))
	}
	sb.WriteString("\n")

	c := report.Categories
	rows := []struct {
		label string
		score types.CategoryScore
	}{
		{"Keyword match", c.KeywordMatch},
		{"Structure", c.StructureFormatting},
		{"Grammar", c.GrammarClarity},
		{"Experience", c.ExperienceRelevance},
		{"Design", c.DesignLayout},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %-14s %3d  (weight %d%%)\n", row.label, row.score.Score, row.score.Weight))
	}
	sb.WriteString(fmt.Sprintf("\nKeywords:  %.1f%% covered\n", report.Keywords.CoveragePercent))
	writeList(&sb, "Missing", report.Keywords.Missing, 3)
	sb.WriteString("\n")
	writeList(&sb, "Recommendations", report.Recommendations, maxItemsToShow)

	p.printBox("SCORE REPORT", strings.TrimSuffix(sb.String(), "\n"))

	if len(report.Meta.Warnings) > 0 {
		var wb strings.Builder
		for _, w := range report.Meta.Warnings {
			wb.WriteString(fmt.Sprintf("⚠️  %s\n", w))
		}
		p.printBox("WARNINGS", strings.TrimSuffix(wb.String(), "\n"))
	}
}

// PrintRasterized outputs how a document was turned into page images.
func (p *Printer) PrintRasterized(doc *types.RasterizedDocument) {
	if doc == nil {
		return
	}
	content := fmt.Sprintf("Format:    %s\nPages:     %d", doc.Format, doc.PageCount())
	if doc.FileName != "" {
		content = fmt.Sprintf("File:      %s\n", doc.FileName) + content
	}
	if doc.Fallback {
		content += "\nRenderer:  embedded viewer (fallback)"
	}
	p.printBox("RASTERIZED DOCUMENT", content)
}
