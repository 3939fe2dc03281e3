// Package pdftext extracts plain text from PDF bodies with ledongthuc/pdf.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/doeshing/bizlens/internal/domain"
)

// Extractor implements ports.PDFTextExtractor.
type Extractor struct {
	// MaxPages bounds how many pages are read; 0 reads every page.
	MaxPages int
}

// NewExtractor returns an Extractor that reads at most maxPages pages.
func NewExtractor(maxPages int) *Extractor {
	return &Extractor{MaxPages: maxPages}
}

// ExtractText returns the text of every readable page, one page per block.
func (e *Extractor) ExtractText(body []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &domain.ParseError{Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", &domain.ParseError{Err: fmt.Errorf("open pdf: %w", err)}
	}

	pages := reader.NumPage()
	if e.MaxPages > 0 && pages > e.MaxPages {
		pages = e.MaxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", &domain.ParseError{Err: errors.New("pdf contains no extractable text")}
	}
	return b.String(), nil
}
