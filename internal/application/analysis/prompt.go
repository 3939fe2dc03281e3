package analysis

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/bizlens/internal/domain"
)

// promptData is exposed to prompt templates as {{.Input}}, {{.Title}} and {{.URL}}.
type promptData struct {
	Input string
	Title string
	URL   string
}

const fallbackTemplate = "{{.Input}}"

func renderPrompt(field, source string, data promptData) (string, error) {
	if strings.TrimSpace(source) == "" {
		source = fallbackTemplate
	}

	tmpl, err := template.New(field).Option("missingkey=error").Parse(source)
	if err != nil {
		return "", &domain.ConfigError{Field: field, Reason: err.Error()}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &domain.ConfigError{Field: field, Reason: err.Error()}
	}
	return strings.TrimSpace(buf.String()), nil
}

// ValidatePrompt reports whether source parses as a prompt template.
func ValidatePrompt(field, source string) error {
	_, err := renderPrompt(field, source, promptData{})
	return err
}
