// Package textextract turns fetched pages into clean analysis text.
package textextract

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

// nonContentTags are removed with their whole subtree before text extraction.
var nonContentTags = []string{"script", "style"}

// ExtractReadableText parses markup, drops script and style subtrees and
// returns the normalized visible text. Entities are decoded, so output that
// contains markup-like text or entities is only idempotent when it is not fed
// back through the parser: "&lt;b&gt;" comes out as "<b>" and is then parsed
// as a tag on a second pass.
func ExtractReadableText(parser ports.DocumentParser, markup string) (string, error) {
	doc, err := parseDocument(parser, markup)
	if err != nil {
		return "", err
	}
	return NormalizeText(doc.Text()), nil
}

func parseDocument(parser ports.DocumentParser, markup string) (ports.Document, error) {
	if !utf8.ValidString(markup) {
		return nil, &domain.ParseError{Err: errors.New("markup is not valid UTF-8")}
	}
	doc, err := parser.Parse(markup)
	if err != nil {
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, &domain.ParseError{Err: err}
	}
	doc.RemoveElements(nonContentTags...)
	return doc, nil
}

// NormalizeText trims every line, splits it into phrases on runs of two or
// more spaces and joins the non-empty phrases with single newlines.
func NormalizeText(text string) string {
	lines := strings.FieldsFunc(text, isLineBreak)

	chunks := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u001c', '\u001d', '\u001e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
