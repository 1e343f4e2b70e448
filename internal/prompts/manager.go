package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// Prompt modes, one per gateway operation.
const (
	ModeFirstQuestion = "first_question"
	ModeFollowUp      = "follow_up"
	ModeEvaluation    = "evaluation"
)

// PromptProvider is the interface consumed by the generation gateway.
type PromptProvider interface {
	BuildPrompt(mode string, data map[string]string) (string, error)
	Modes() []string
}

type Manager struct {
	prompts map[string]string // mode -> complete prompt template
}

// loaded prompt template
type promptTemplate struct {
	Prompt string `yaml:"prompt"`
}

// creates a new prompt manager and loads templates
func NewManager() (*Manager, error) {
	m := &Manager{
		prompts: make(map[string]string),
	}

	if err := m.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return m, nil
}

// BuildPrompt fills the template for the given mode with the provided
// values. Placeholders look like {{.JobDescription}}.
func (m *Manager) BuildPrompt(mode string, data map[string]string) (string, error) {
	tmpl, exists := m.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	// Simple string replacement instead of template execution
	result := tmpl
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}

	return result, nil
}

// Modes returns the loaded prompt modes.
func (m *Manager) Modes() []string {
	modes := make([]string, 0, len(m.prompts))
	for mode := range m.prompts {
		modes = append(modes, mode)
	}
	return modes
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (m *Manager) loadPrompts() error {
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

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		m.prompts[name] = tmpl.Prompt
	}

	for _, mode := range []string{ModeFirstQuestion, ModeFollowUp, ModeEvaluation} {
		if _, ok := m.prompts[mode]; !ok {
			return fmt.Errorf("missing template for mode: %s", mode)
		}
	}

	return nil
}
