// Package prompts holds the document prompt templates. Templates live in JSON
// files embedded at compile time and use {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// DocumentsFile holds the interviewer brief and interviewee packet templates.
const DocumentsFile = "documents.json"

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

// parsed maps a file name to its decoded templates.
var parsed sync.Map

// Get returns the template stored under key in filename.
func Get(filename, key string) (string, error) {
	templates, err := load(filename)
	if err != nil {
		return "", err
	}

	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// Render loads a template and fills it from data. Every placeholder in the
// template must have a value.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}

	if missing := MissingKeys(template, data); len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: missing values for %s", filename, key, strings.Join(missing, ", "))
	}
	return Format(template, data), nil
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass, so a value containing placeholder text is inserted literally.
// Placeholders without a value are left as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for _, key := range sortedKeys(data) {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// MissingKeys returns the sorted placeholder names in template that data lacks.
func MissingKeys(template string, data map[string]string) []string {
	missing := make(map[string]string)
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := data[match[1]]; !ok {
			missing[match[1]] = ""
		}
	}
	return sortedKeys(missing)
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func load(filename string) (map[string]string, error) {
	if templates, ok := parsed.Load(filename); ok {
		return templates.(map[string]string), nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	actual, _ := parsed.LoadOrStore(filename, templates)
	return actual.(map[string]string), nil
}
