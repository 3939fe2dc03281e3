package helpers

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/doeshing/bizlens/internal/domain"
)

// Output formats accepted by --format.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// ValidateFormat rejects unknown output formats.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatText, FormatMarkdown:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatText, FormatMarkdown)
	}
}

// Renderer prints analysis results and health reports.
type Renderer struct {
	out    io.Writer
	format string
}

// NewRenderer builds a renderer for the given format. Unknown formats fall
// back to plain text.
func NewRenderer(out io.Writer, format string) *Renderer {
	format = strings.ToLower(format)
	if format != FormatMarkdown {
		format = FormatText
	}
	return &Renderer{out: out, format: format}
}

// Result prints one completed action.
func (r *Renderer) Result(result domain.AnalysisResult) error {
	if r.format == FormatMarkdown {
		return r.resultMarkdown(result)
	}

	fmt.Fprintf(r.out, "%s\n", result.Action.Label())
	if result.Title != "" {
		fmt.Fprintf(r.out, "Title: %s\n", result.Title)
	}
	if result.Source != "" {
		fmt.Fprintf(r.out, "Source: %s\n", result.Source)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.TrimSpace(result.Text))
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Model: %s | Remaining this window: %d\n", result.Model, result.Remaining)
	return nil
}

func (r *Renderer) resultMarkdown(result domain.AnalysisResult) error {
	md := markdown.NewMarkdown(r.out)
	md.H2(result.Action.Label())
	md.PlainText("")
	if result.Title != "" || result.Source != "" {
		var rows [][]string
		if result.Title != "" {
			rows = append(rows, []string{"Title", result.Title})
		}
		if result.Source != "" {
			rows = append(rows, []string{"Source", result.Source})
		}
		md.Table(markdown.TableSet{Header: []string{"Field", "Value"}, Rows: rows})
		md.PlainText("")
	}
	md.PlainText(strings.TrimSpace(result.Text))
	md.PlainText("")
	md.HorizontalRule()
	md.PlainText(fmt.Sprintf("Model `%s`, %d action(s) left in this window.", result.Model, result.Remaining))
	return md.Build()
}

// Failure prints an action failure with its outcome class.
func (r *Renderer) Failure(err error) {
	outcome := domain.Classify(err)
	if r.format == FormatMarkdown {
		md := markdown.NewMarkdown(r.out)
		md.Cautionf("%s: %v", outcome, err)
		_ = md.Build()
		return
	}
	fmt.Fprintf(r.out, "[%s] %v\n", outcome, err)
}

// HealthReport prints doctor checks.
func (r *Renderer) HealthReport(report domain.HealthReport) error {
	if r.format == FormatMarkdown {
		rows := make([][]string, 0, len(report.Checks))
		for _, check := range report.Checks {
			rows = append(rows, []string{check.Name, strings.ToUpper(string(check.Status)), check.Details})
		}
		md := markdown.NewMarkdown(r.out)
		md.H2("Doctor")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Check", "Status", "Details"}, Rows: rows})
		return md.Build()
	}

	for _, check := range report.Checks {
		fmt.Fprintf(r.out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
	return nil
}
