package rendering

import (
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// OtherCategory collects skills without a category.
const OtherCategory = "Other"

// Document is the view model every template renders. Empty slices mean the
// section is omitted.
type Document struct {
	Name         string
	Title        string
	Contact      []ContactItem
	Summary      string
	SkillGroups  []SkillGroup
	SkillsLine   string
	Experience   []Entry
	Education    []Entry
	Projects     []Item
	Achievements []Item
}

// ContactItem is one header contact detail. Href is empty for plain text.
type ContactItem struct {
	Label string
	Value string
	Href  string
}

// SkillGroup is a labelled set of skills.
type SkillGroup struct {
	Category string
	Skills   []SkillChip
}

// SkillChip is a skill name with its optional level.
type SkillChip struct {
	Name  string
	Level string
}

// Entry is an experience or education item.
type Entry struct {
	Heading    string
	Subheading string
	Location   string
	Dates      string
	Detail     string
	Bullets    []string
}

// Item is a project or achievement.
type Item struct {
	Title        string
	Meta         string
	Description  string
	Technologies []string
	URL          string
}

// HasSkills reports whether the skills section has any content.
func (d *Document) HasSkills() bool {
	return len(d.SkillGroups) > 0 || d.SkillsLine != ""
}

// Initials returns up to two initials of the candidate's name.
func (d *Document) Initials() string {
	var out []rune
	for _, part := range strings.Fields(d.Name) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// BuildDocument computes the view model for p. Enhanced content is used where
// present; every missing enhancement falls back to the original field.
func BuildDocument(p *types.PolishedResume) Document {
	r := p.Original
	e := &p.Enhancements

	doc := Document{
		Name:    CleanText(r.Personal.Name),
		Title:   CleanText(r.Personal.Title),
		Contact: contactItems(r.Personal),
		Summary: CleanText(e.Summary),
	}
	if doc.Summary == "" {
		doc.Summary = CleanText(r.Personal.Summary)
	}

	doc.SkillGroups = groupSkills(r.Skills)
	if len(doc.SkillGroups) == 0 {
		doc.SkillsLine = CleanText(e.SkillsLine)
	}

	for i, x := range r.Experience {
		entry := Entry{
			Heading:    CleanText(x.Position),
			Subheading: CleanText(x.Company),
			Location:   CleanText(x.Location),
			Dates:      DateRange(x.StartDate, x.EndDate, x.Current),
			Bullets:    bullets(e.ExperienceBulletsAt(i), x.Description),
		}
		if entry.Heading == "" {
			entry.Heading, entry.Subheading = entry.Subheading, ""
		}
		doc.Experience = append(doc.Experience, entry)
	}

	for i, ed := range r.Education {
		entry := Entry{
			Heading:    degreeLine(ed),
			Subheading: CleanText(ed.Institution),
			Location:   CleanText(ed.Location),
			Dates:      DateRange(ed.StartDate, ed.EndDate, false),
			Bullets:    bullets(e.EducationBulletsAt(i), ed.Description),
		}
		if gpa := CleanText(ed.GPA); gpa != "" {
			entry.Detail = "GPA " + gpa
		}
		if entry.Heading == "" {
			entry.Heading, entry.Subheading = entry.Subheading, ""
		}
		doc.Education = append(doc.Education, entry)
	}

	for i, pr := range r.Projects {
		item := Item{
			Title:       CleanText(pr.Name),
			Meta:        DateRange(pr.StartDate, pr.EndDate, false),
			Description: pick(e.ProjectAt(i), pr.Description),
			URL:         strings.TrimSpace(pr.URL),
		}
		for _, tech := range pr.Technologies {
			if tech = CleanText(tech); tech != "" {
				item.Technologies = append(item.Technologies, tech)
			}
		}
		doc.Projects = append(doc.Projects, item)
	}

	for i, a := range r.Achievements {
		doc.Achievements = append(doc.Achievements, Item{
			Title:       CleanText(a.Title),
			Meta:        joinNonEmpty(" · ", CleanText(a.Issuer), FormatYearMonth(a.Date)),
			Description: pick(e.AchievementAt(i), a.Description),
		})
	}

	return doc
}

func contactItems(p types.PersonalInfo) []ContactItem {
	var items []ContactItem
	add := func(label, value, href string) {
		value = CleanText(value)
		if value == "" {
			return
		}
		items = append(items, ContactItem{Label: label, Value: value, Href: href})
	}
	add("Email", p.Email, mailto(p.Email))
	add("Phone", p.Phone, "")
	add("Location", p.Location, "")
	add("Website", p.Website, webURL(p.Website))
	add("LinkedIn", p.LinkedIn, webURL(p.LinkedIn))
	add("GitHub", p.GitHub, webURL(p.GitHub))
	return items
}

func mailto(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

func webURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// groupSkills buckets skills by category in first-appearance order, with
// uncategorised skills in a trailing "Other" group.
func groupSkills(skills []types.Skill) []SkillGroup {
	var groups []SkillGroup
	index := map[string]int{}
	var other []SkillChip

	for _, s := range skills {
		chip := SkillChip{Name: CleanText(s.Name), Level: CleanText(s.Level)}
		if chip.Name == "" {
			continue
		}
		category := CleanText(s.Category)
		if category == "" || strings.EqualFold(category, OtherCategory) {
			other = append(other, chip)
			continue
		}
		key := strings.ToLower(category)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, SkillGroup{Category: category})
		}
		groups[i].Skills = append(groups[i].Skills, chip)
	}
	if len(other) > 0 {
		groups = append(groups, SkillGroup{Category: OtherCategory, Skills: other})
	}
	return groups
}

func bullets(enhanced []string, description string) []string {
	var out []string
	for _, b := range enhanced {
		if b = CleanText(b); b != "" {
			out = append(out, b)
		}
	}
	if len(out) > 0 {
		return out
	}
	return SplitSentences(description)
}

func degreeLine(ed types.Education) string {
	degree := CleanText(ed.Degree)
	field := CleanText(ed.Field)
	switch {
	case degree != "" && field != "":
		return degree + " in " + field
	case degree != "":
		return degree
	}
	return field
}

func pick(enhanced, original string) string {
	if s := CleanText(enhanced); s != "" {
		return s
	}
	return CleanText(original)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
