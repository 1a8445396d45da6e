// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files, embedded at compile time and rendered with text/template.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
}

type entry struct {
	raw  string
	tmpl *template.Template
}

// cache stores parsed templates per file to avoid repeated parsing
var (
	cache   = make(map[string]map[string]entry)
	cacheMu sync.RWMutex
)

// Get retrieves the raw prompt text by filename and key (e.g. "polish.json", "summary").
func Get(filename, key string) (string, error) {
	e, err := lookup(filename, key)
	if err != nil {
		return "", err
	}
	return e.raw, nil
}

// Render executes the prompt template with data.
func Render(filename, key string, data any) (string, error) {
	e, err := lookup(filename, key)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// MustRender is Render that panics; use it only for prompts known to exist.
func MustRender(filename, key string, data any) string {
	out, err := Render(filename, key, data)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return out
}

// List returns all available prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	templates, err := loadFile(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]entry)
	cacheMu.Unlock()
}

func lookup(filename, key string) (entry, error) {
	templates, err := loadFile(filename)
	if err != nil {
		return entry{}, err
	}
	e, exists := templates[key]
	if !exists {
		return entry{}, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return e, nil
}

// loadFile loads, parses and caches a prompt file.
func loadFile(filename string) (map[string]entry, error) {
	cacheMu.RLock()
	if templates, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return templates, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	templates := make(map[string]entry, len(raw))
	for key, text := range raw {
		tmpl, err := template.New(key).Funcs(funcs).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("invalid prompt template %s/%s: %w", filename, key, err)
		}
		templates[key] = entry{raw: text, tmpl: tmpl}
	}

	cacheMu.Lock()
	cache[filename] = templates
	cacheMu.Unlock()

	return templates, nil
}
