// Package polish rewrites the sections of a canonical resume with a language model.
//
// Each section is polished by an independent call. A failed call never aborts
// the others: the section keeps its original content and the failure is noted
// in the result provenance.
package polish

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/recovery"
	"github.com/jonathan/resume-studio/internal/types"
)

const promptFile = "polish.json"

// Options configures a Polisher.
type Options struct {
	// MaxConcurrency bounds in-flight model calls. Zero means 4.
	MaxConcurrency int
	Logger         zerolog.Logger
	// Now is overridable for tests.
	Now func() time.Time
}

// Polisher enhances resume sections concurrently.
type Polisher struct {
	client llm.Client
	opts   Options
}

// New creates a Polisher that calls client for every section.
func New(client llm.Client, opts Options) *Polisher {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Polisher{client: client, opts: opts}
}

// task is one independent model call. run returns a function that applies its
// result to the enhancements, so all writes happen in the sequential fold.
type task struct {
	section string
	run     func(ctx context.Context) (func(*types.Enhancements), error)
}

type sectionResult struct {
	section string
	apply   func(*types.Enhancements)
	err     error
}

// Polish enhances every non-empty section of resume. The returned error is non-nil
// only when ctx is cancelled; individual section failures are reported in
// Provenance.Failures.
func (p *Polisher) Polish(ctx context.Context, resume types.CanonicalResume) (*types.PolishedResume, error) {
	start := time.Now()
	original := cloneResume(resume)
	tasks := p.plan(original)

	results := make([]sectionResult, len(tasks))
	g := new(errgroup.Group)
	g.SetLimit(p.opts.MaxConcurrency)
	for i, t := range tasks {
		g.Go(func() error {
			apply, err := t.run(ctx)
			results[i] = sectionResult{section: t.section, apply: apply, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("polish cancelled: %w", err)
	}

	enh := types.Enhancements{
		ExperienceBullets: make([][]string, len(original.Experience)),
		EducationBullets:  make([][]string, len(original.Education)),
	}
	var failures []types.SectionFailure
	for _, r := range results {
		if r.err != nil {
			serr := &SectionError{Section: r.section, Cause: r.err}
			failures = append(failures, types.SectionFailure{Section: r.section, Message: r.err.Error()})
			observability.SectionFailures.WithLabelValues(sectionKind(r.section)).Inc()
			p.opts.Logger.Warn().Err(serr).Str("section", r.section).Msg("section left unenhanced")
			continue
		}
		r.apply(&enh)
	}

	observability.ObserveStage("polish", start)
	p.opts.Logger.Info().Int("sections", len(tasks)).Int("failures", len(failures)).Dur("elapsed", time.Since(start)).Msg("polish complete")

	return &types.PolishedResume{
		Original:     original,
		Enhancements: compact(enh),
		Provenance: types.Provenance{
			ID:          uuid.NewString(),
			Provider:    string(p.client.Provider()),
			Model:       p.client.GetModel(llm.TierText),
			GeneratedAt: p.opts.Now().UTC(),
			Failures:    failures,
		},
	}, nil
}

// plan lists the calls to make. Sections without source content are skipped
// so the model is never asked to invent one.
func (p *Polisher) plan(r types.CanonicalResume) []task {
	var tasks []task

	if strings.TrimSpace(r.Personal.Summary) != "" {
		tasks = append(tasks, task{section: "summary", run: p.summaryTask(r.Personal)})
	}
	for i, exp := range r.Experience {
		if strings.TrimSpace(exp.Description) == "" {
			continue
		}
		tasks = append(tasks, task{section: fmt.Sprintf("experience[%d]", i), run: p.experienceTask(i, exp)})
	}
	for i, edu := range r.Education {
		if strings.TrimSpace(edu.Description) == "" {
			continue
		}
		tasks = append(tasks, task{section: fmt.Sprintf("education[%d]", i), run: p.educationTask(i, edu)})
	}
	if skills := r.AllSkillNames(); len(skills) > 0 {
		tasks = append(tasks, task{section: "skills", run: p.skillsTask(skills)})
	}
	if len(r.Achievements) > 0 {
		tasks = append(tasks, task{section: "achievements", run: p.achievementsTask(r.Achievements)})
	}
	if len(r.Projects) > 0 {
		tasks = append(tasks, task{section: "projects", run: p.projectsTask(r.Projects)})
	}
	return tasks
}

func (p *Polisher) summaryTask(info types.PersonalInfo) func(context.Context) (func(*types.Enhancements), error) {
	return func(ctx context.Context) (func(*types.Enhancements), error) {
		res, err := p.generate(ctx, "summary", map[string]string{"Title": info.Title, "Summary": info.Summary}, "summary")
		if err != nil {
			return nil, err
		}
		text := res.Text
		if res.IsObject() {
			text, _ = res.Object["summary"].(string)
		}
		summary := SanitizeSummary(text)
		if summary == "" {
			return nil, errEmptyOutput
		}
		return func(e *types.Enhancements) { e.Summary = summary }, nil
	}
}

func (p *Polisher) experienceTask(i int, exp types.Experience) func(context.Context) (func(*types.Enhancements), error) {
	return func(ctx context.Context) (func(*types.Enhancements), error) {
		bullets, err := p.bullets(ctx, "experience", exp)
		if err != nil {
			return nil, err
		}
		return func(e *types.Enhancements) { e.ExperienceBullets[i] = bullets }, nil
	}
}

func (p *Polisher) educationTask(i int, edu types.Education) func(context.Context) (func(*types.Enhancements), error) {
	return func(ctx context.Context) (func(*types.Enhancements), error) {
		bullets, err := p.bullets(ctx, "education", edu)
		if err != nil {
			return nil, err
		}
		return func(e *types.Enhancements) { e.EducationBullets[i] = bullets }, nil
	}
}

func (p *Polisher) bullets(ctx context.Context, key string, data any) ([]string, error) {
	raw, err := p.call(ctx, key, data)
	if err != nil {
		return nil, err
	}
	res := recovery.Recover(raw)
	observability.RecoveryStrategies.WithLabelValues(string(res.Strategy)).Inc()

	var bullets []string
	if res.IsObject() {
		bullets = CleanBullets(stringList(res.Object["bullets"]))
	} else {
		bullets = bulletsFromText(raw)
	}
	if len(bullets) == 0 {
		return nil, errEmptyOutput
	}
	return bullets, nil
}

func (p *Polisher) skillsTask(skills []string) func(context.Context) (func(*types.Enhancements), error) {
	return func(ctx context.Context) (func(*types.Enhancements), error) {
		res, err := p.generate(ctx, "skills", map[string]any{"Skills": skills}, "skills")
		if err != nil {
			return nil, err
		}
		text := res.Text
		if res.IsObject() {
			switch v := res.Object["skills"].(type) {
			case string:
				text = v
			case []any:
				text = strings.Join(stringList(v), ", ")
			default:
				text = ""
			}
		}
		line := NormalizeSkillsLine(text)
		if line == "" {
			return nil, errEmptyOutput
		}
		return func(e *types.Enhancements) { e.SkillsLine = line }, nil
	}
}

type achievementItem struct {
	Title       string
	Issuer      string
	Description string
}

func (p *Polisher) achievementsTask(items []types.Achievement) func(context.Context) (func(*types.Enhancements), error) {
	return func(ctx context.Context) (func(*types.Enhancements), error) {
		data := make([]achievementItem, len(items))
		for i, a := range items {
			data[i] = achievementItem{Title: a.Title, Issuer: a.Issuer, Description: a.Description}
		}
		out, err := p.items(ctx, "achievements", data, len(items))
		if err != nil {
			return nil, err
		}
		return func(e *types.Enhancements) { e.AchievementDescriptions = out }, nil
	}
}

type projectItem struct {
	Name         string
	Description  string
	Technologies []string
}

func (p *Polisher) projectsTask(items []types.Project) func(context.Context) (func(*types.Enhancements), error) {
	return func(ctx context.Context) (func(*types.Enhancements), error) {
		data := make([]projectItem, len(items))
		for i, pr := range items {
			data[i] = projectItem{Name: pr.Name, Description: pr.Description, Technologies: pr.Technologies}
		}
		out, err := p.items(ctx, "projects", data, len(items))
		if err != nil {
			return nil, err
		}
		return func(e *types.Enhancements) { e.ProjectDescriptions = out }, nil
	}
}

// items polishes a list in one call. The answer must hold exactly want entries.
func (p *Polisher) items(ctx context.Context, key string, data any, want int) ([]string, error) {
	raw, err := p.call(ctx, key, map[string]any{"Items": data})
	if err != nil {
		return nil, err
	}
	res := recovery.Recover(raw)
	observability.RecoveryStrategies.WithLabelValues(string(res.Strategy)).Inc()
	if !res.IsObject() {
		return nil, errNotObject
	}
	raws, ok := res.Object["items"].([]any)
	if !ok {
		return nil, errEmptyOutput
	}
	if len(raws) != want {
		return nil, &countMismatchError{want: want, got: len(raws)}
	}
	out := make([]string, want)
	for i, v := range raws {
		s, _ := v.(string)
		out[i] = strings.TrimSpace(whitespace.ReplaceAllString(bulletGlyph.ReplaceAllString(s, ""), " "))
	}
	return out, nil
}

// generate renders a prompt, calls the model and recovers the answer with
// salvage on field.
func (p *Polisher) generate(ctx context.Context, key string, data any, field string) (recovery.Result, error) {
	raw, err := p.call(ctx, key, data)
	if err != nil {
		return recovery.Result{}, err
	}
	res := recovery.Recover(raw, recovery.WithFields(field))
	observability.RecoveryStrategies.WithLabelValues(string(res.Strategy)).Inc()
	p.opts.Logger.Debug().Str("section", key).Str("strategy", string(res.Strategy)).Msg("recovered model output")
	return res, nil
}

func (p *Polisher) call(ctx context.Context, key string, data any) (string, error) {
	prompt, err := prompts.Render(promptFile, key, data)
	if err != nil {
		return "", err
	}
	return p.client.GenerateJSON(ctx, prompt, llm.TierText)
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// sectionKind maps "experience[2]" to "experience" for metric labels.
func sectionKind(section string) string {
	if idx := strings.Index(section, "["); idx >= 0 {
		return section[:idx]
	}
	return section
}

// compact drops index-aligned slices that carry no enhancement at all.
func compact(e types.Enhancements) types.Enhancements {
	if !slices.ContainsFunc(e.ExperienceBullets, func(b []string) bool { return len(b) > 0 }) {
		e.ExperienceBullets = nil
	}
	if !slices.ContainsFunc(e.EducationBullets, func(b []string) bool { return len(b) > 0 }) {
		e.EducationBullets = nil
	}
	return e
}

func cloneResume(r types.CanonicalResume) types.CanonicalResume {
	out := r
	out.Education = slices.Clone(r.Education)
	out.Experience = slices.Clone(r.Experience)
	out.Skills = slices.Clone(r.Skills)
	out.Achievements = slices.Clone(r.Achievements)
	out.Projects = make([]types.Project, len(r.Projects))
	for i, pr := range r.Projects {
		pr.Technologies = slices.Clone(pr.Technologies)
		out.Projects[i] = pr
	}
	if r.Projects == nil {
		out.Projects = nil
	}
	return out
}
