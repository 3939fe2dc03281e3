// Package htmldoc adapts golang.org/x/net/html and goquery to the
// ports.DocumentParser and ports.ArticleExtractor interfaces.
package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

// Parser builds goquery documents. Scripting is disabled so <noscript>
// content is parsed as markup rather than raw text.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements ports.DocumentParser.
func (p *Parser) Parse(markup string) (ports.Document, error) {
	root, err := html.ParseWithOptions(strings.NewReader(markup), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// Document wraps a parsed tree.
type Document struct {
	doc *goquery.Document
}

// RemoveElements drops every element with one of the given tag names.
func (d *Document) RemoveElements(tags ...string) {
	if len(tags) == 0 {
		return
	}
	d.doc.Find(strings.Join(tags, ", ")).Remove()
}

// Title returns the trimmed text of the first <title> element.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// Text concatenates the text nodes in document order. Block elements start
// and end on their own line, <br> becomes a newline and table cells are
// separated by two spaces. Whitespace inside text nodes is kept verbatim.
func (d *Document) Text() string {
	var b strings.Builder
	for _, n := range d.doc.Nodes {
		writeText(&b, n)
	}
	return b.String()
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Caption: true, atom.Dd: true, atom.Details: true,
	atom.Dialog: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Html: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Tbody: true,
	atom.Tfoot: true, atom.Thead: true, atom.Title: true, atom.Tr: true,
	atom.Ul: true,
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch {
		case n.DataAtom == atom.Br:
			b.WriteByte('\n')
			return
		case blockElements[n.DataAtom]:
			newline(b)
			writeChildren(b, n)
			newline(b)
			return
		case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
			writeChildren(b, n)
			b.WriteString("  ")
			return
		}
	}
	writeChildren(b, n)
}

func writeChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

func newline(b *strings.Builder) {
	if b.Len() == 0 {
		return
	}
	if s := b.String(); s[len(s)-1] != '\n' {
		b.WriteByte('\n')
	}
}
