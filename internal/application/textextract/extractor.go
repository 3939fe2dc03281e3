package textextract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

// Extractor converts a fetched page into a ScrapedDocument, dispatching on
// the response media type.
type Extractor struct {
	parser   ports.DocumentParser
	articles ports.ArticleExtractor
	pdf      ports.PDFTextExtractor
	mode     string
}

// NewExtractor wires the extractor. articles and pdf may be nil, in which case
// article mode falls back to the full page and PDF bodies are rejected.
func NewExtractor(parser ports.DocumentParser, articles ports.ArticleExtractor, pdf ports.PDFTextExtractor, mode string) *Extractor {
	if mode == "" {
		mode = domain.FetchModeFull
	}
	return &Extractor{parser: parser, articles: articles, pdf: pdf, mode: mode}
}

// Extract returns the readable text of page. A page that yields no text is a
// parse failure.
func (e *Extractor) Extract(page domain.FetchedPage) (domain.ScrapedDocument, error) {
	doc := domain.ScrapedDocument{URL: page.URL, ContentType: page.MediaType()}

	switch {
	case page.IsPDF():
		if e.pdf == nil {
			return doc, &domain.ParseError{Err: errors.New("pdf documents are not supported")}
		}
		raw, err := e.pdf.ExtractText(page.Body)
		if err != nil {
			return doc, asParseError(err)
		}
		doc.Text = NormalizeText(raw)
	default:
		title, text, err := e.extractHTML(page)
		if err != nil {
			return doc, err
		}
		doc.Title = title
		doc.Text = text
	}

	if doc.Text == "" {
		return doc, &domain.ParseError{Err: fmt.Errorf("no readable text at %s", page.URL)}
	}
	return doc, nil
}

func (e *Extractor) extractHTML(page domain.FetchedPage) (string, string, error) {
	markup := string(page.Body)

	parsed, err := parseDocument(e.parser, markup)
	if err != nil {
		return "", "", err
	}
	title := parsed.Title()

	if e.mode == domain.FetchModeArticle && e.articles != nil {
		articleTitle, articleHTML, err := e.articles.Extract(markup, page.URL)
		if err == nil {
			text, err := ExtractReadableText(e.parser, articleHTML)
			if err == nil && text != "" {
				if strings.TrimSpace(articleTitle) != "" {
					title = articleTitle
				}
				return title, text, nil
			}
		}
	}

	return title, NormalizeText(parsed.Text()), nil
}

func asParseError(err error) error {
	if errors.Is(err, domain.ErrParseFailure) {
		return err
	}
	return &domain.ParseError{Err: err}
}
