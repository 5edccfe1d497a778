package generation

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// SystemInstruction is sent as the system role with every prompt.
const SystemInstruction = "Du bist ein hilfreicher Vokabelgenerator."

const defaultPrompt = `
Erstelle GENAU {{.Count}} unterschiedliche Vokabelpaare Deutsch–Spanisch.
Thema: "{{.Topic}}".

RESTRIKTIONEN:
- Gib GENAU {{.Count}} Einträge zurück, nicht mehr und nicht weniger.
- KEIN zusätzlicher Text, KEINE Erklärungen.
- Antworte NUR mit einem JSON-Array im folgenden Format:

[
  { "de": "Haus", "es": "casa" },
  { "de": "Baum", "es": "árbol" }
]

- Verwende einfache, alltagstaugliche Wörter.
`

type promptData struct {
	Topic string
	Count int
}

// Prompt renders the user prompt for a topic and count.
type Prompt struct {
	tmpl *template.Template
}

// NewPrompt loads the template at path, or the built-in German prompt when
// path is empty.
func NewPrompt(path string) (*Prompt, error) {
	text := defaultPrompt
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				ErrInvalidConfig, path, err)
		}
		text = string(data)
	}

	tmpl, err := template.New("vocab").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

// Render executes the template.
func (p *Prompt) Render(topic string, count int) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, promptData{Topic: topic, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
