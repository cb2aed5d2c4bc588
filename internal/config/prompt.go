package config

import (
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// PromptData is the data a prompt template is rendered with.
type PromptData struct {
	Machine  string
	Hostname string
}

// ParsePrompt parses a prompt template with the sprig function map.
func ParsePrompt(text string) (*template.Template, error) {
	return template.New("prompt").Funcs(sprig.TxtFuncMap()).Parse(text)
}

// RenderPrompt expands the prompt template of c. A plain prompt without
// actions renders to itself.
func (c TermshellConfig) RenderPrompt() (string, error) {
	tmpl, err := ParsePrompt(c.Prompt)
	if err != nil {
		return "", err
	}
	hostname, _ := os.Hostname()

	var b strings.Builder
	if err := tmpl.Execute(&b, PromptData{Machine: c.MachineName, Hostname: hostname}); err != nil {
		return "", err
	}
	return b.String(), nil
}
