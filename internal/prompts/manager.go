package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompt kinds, one per template file.
const (
	KindOpening       = "opening"
	KindClarification = "clarification"
	KindFollowup      = "followup"
	KindScoring       = "scoring"
	KindTopic         = "topic"
	KindReport        = "report"
)

// embeds all .yaml files in the templates folder into the binary at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider is what consumers depend on; tests swap in a fake.
type PromptProvider interface {
	BuildPrompt(kind string, data map[string]string) (string, error)
	Kinds() []string
}

type PromptManager struct {
	prompts map[string]string // kind -> template text with {{.Key}} placeholders
}

// on-disk template shape
type promptTemplate struct {
	Prompt string `yaml:"prompt"`
}

// creates a new prompt manager and loads all embedded templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]string),
	}
	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return pm, nil
}

// BuildPrompt renders the template for the given kind by straight string
// replacement of {{.Key}} placeholders. No template compilation; the
// templates are trusted, the data is plain text.
func (pm *PromptManager) BuildPrompt(kind string, data map[string]string) (string, error) {
	template, exists := pm.prompts[kind]
	if !exists {
		return "", fmt.Errorf("template not found for kind: %s", kind)
	}

	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}

	if idx := strings.Index(result, "{{."); idx != -1 {
		end := strings.Index(result[idx:], "}}")
		if end == -1 {
			end = len(result) - idx
		}
		return "", fmt.Errorf("unfilled placeholder %q in %s template", result[idx:idx+end+2], kind)
	}

	return result, nil
}

// Kinds lists the loaded template kinds.
func (pm *PromptManager) Kinds() []string {
	kinds := make([]string, 0, len(pm.prompts))
	for kind := range pm.prompts {
		kinds = append(kinds, kind)
	}
	return kinds
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tmpl promptTemplate
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if strings.TrimSpace(tmpl.Prompt) == "" {
			return fmt.Errorf("template file %s has an empty prompt", entry.Name())
		}

		kind := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.prompts[kind] = strings.TrimSpace(tmpl.Prompt)
	}

	return nil
}
