// Package prompt renders the meeting-protocol instruction around a transcript.
package prompt

import (
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

const slot = "{{.Transcript}}"

// DefaultTemplate asks for a structured German meeting protocol.
const DefaultTemplate = `Fasse das folgende Meeting-Transkript in einem strukturierten Protokoll zusammen. Verwende dabei klare Überschriften und Aufzählungspunkte zur Strukturierung.
Erfasse alle:
- getroffenen Aufgaben
- aufgetretenen Probleme
- getroffenen Entscheidungen
- gefundenen Lösungen zu Problemen
- Termine
- Anwesenden

Transkript:
{{.Transcript}}
`

// Template is immutable after construction and safe for concurrent use.
type Template struct {
	text string
	tmpl *template.Template
}

// New parses text. It fails with model.ErrTemplate if the template is
// malformed or has no transcript slot.
func New(text string) (*Template, error) {
	if !strings.Contains(text, slot) {
		return nil, model.Errorf(model.ErrTemplate, "template has no %s slot", slot)
	}
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, model.Wrap(model.ErrTemplate, err, "parse template")
	}
	return &Template{text: text, tmpl: tmpl}, nil
}

// Load reads a template from path, or returns the default template when path is empty.
func Load(path string) (*Template, error) {
	if path == "" {
		return New(DefaultTemplate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.Wrap(model.ErrTemplate, err, "read template %s", path)
	}
	return New(string(data))
}

// Text returns the raw template.
func (t *Template) Text() string {
	return t.text
}

// Render substitutes transcript verbatim.
func (t *Template) Render(transcript string) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, struct{ Transcript string }{transcript}); err != nil {
		return "", model.Wrap(model.ErrTemplate, err, "render template")
	}
	return b.String(), nil
}

// Truncate cuts prompt to at most max characters. It is lossy and knows nothing
// about tokens or word boundaries. max <= 0 means no limit.
func Truncate(prompt string, max int) string {
	if max <= 0 || utf8.RuneCountInString(prompt) <= max {
		return prompt
	}
	runes := []rune(prompt)
	return string(runes[:max])
}
