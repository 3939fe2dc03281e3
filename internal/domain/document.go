package domain

import (
	"mime"
	"strings"
)

// FetchedPage is the raw result of a successful fetch.
type FetchedPage struct {
	URL         string
	ContentType string
	Body        []byte
}

// MediaType returns the lower-cased media type without parameters.
func (p FetchedPage) MediaType() string {
	mediaType, _, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(p.ContentType, ";", 2)[0]))
	}
	return mediaType
}

// IsPDF reports whether the body is a PDF document.
func (p FetchedPage) IsPDF() bool {
	return p.MediaType() == "application/pdf"
}

// ScrapedDocument is the cleaned text derived from one fetched page.
type ScrapedDocument struct {
	URL         string
	Title       string
	ContentType string
	Text        string
}
