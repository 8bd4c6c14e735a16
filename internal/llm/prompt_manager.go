package llm

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptVariant selects a family of prompt files. Files are named key_variant.prompt.
type PromptVariant string
type PromptKey string

const (
	DefaultVariant PromptVariant = "default"

	DiffPrimerPrompt    PromptKey = "diff_primer"
	FileSummaryPrompt   PromptKey = "file_summary"
	CommitSummaryPrompt PromptKey = "commit_summary"
	PRSummaryPrompt     PromptKey = "pr_summary"
)

var promptFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// PromptManager holds the parsed prompt templates.
type PromptManager struct {
	prompts map[PromptKey]map[PromptVariant]*template.Template
}

func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[PromptKey]map[PromptVariant]*template.Template),
	}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		lastUnderscore := strings.LastIndex(baseName, "_")
		if lastUnderscore <= 0 || lastUnderscore == len(baseName)-1 {
			return nil, fmt.Errorf("invalid prompt filename format: %s (expected 'key_variant.prompt')", fileName)
		}

		key := PromptKey(baseName[:lastUnderscore])
		variant := PromptVariant(baseName[lastUnderscore+1:])

		content, err := promptFiles.ReadFile("prompts/" + fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", fileName, err)
		}

		if err := pm.register(key, variant, string(content)); err != nil {
			return nil, fmt.Errorf("failed to register prompt from file %s: %w", fileName, err)
		}
	}

	return pm, nil
}

func (pm *PromptManager) register(key PromptKey, variant PromptVariant, content string) error {
	tmpl, err := template.New(string(key) + "_" + string(variant)).Funcs(promptFuncs).Parse(content)
	if err != nil {
		return fmt.Errorf("could not parse template: %w", err)
	}

	if _, ok := pm.prompts[key]; !ok {
		pm.prompts[key] = make(map[PromptVariant]*template.Template)
	}

	pm.prompts[key][variant] = tmpl
	return nil
}

// Get returns the template for key, preferring the given variant over the default one.
func (pm *PromptManager) Get(key PromptKey, variant PromptVariant) (*template.Template, error) {
	variants, ok := pm.prompts[key]
	if !ok {
		return nil, fmt.Errorf("no prompts found for key '%s'", key)
	}

	if tmpl, ok := variants[variant]; ok {
		return tmpl, nil
	}
	if tmpl, ok := variants[DefaultVariant]; ok {
		return tmpl, nil
	}

	return nil, fmt.Errorf("no template found for key '%s' and variant '%s', and no default was available", key, variant)
}

func (pm *PromptManager) Render(key PromptKey, variant PromptVariant, data any) (string, error) {
	tmpl, err := pm.Get(key, variant)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}
