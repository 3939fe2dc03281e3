package htmldoc

import (
	"errors"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/doeshing/bizlens/internal/domain"
)

// ArticleExtractor narrows a page to its main content with go-readability.
type ArticleExtractor struct{}

// NewArticleExtractor returns an ArticleExtractor.
func NewArticleExtractor() *ArticleExtractor {
	return &ArticleExtractor{}
}

// Extract implements ports.ArticleExtractor.
func (e *ArticleExtractor) Extract(markup string, pageURL string) (string, string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", "", &domain.ParseError{Err: err}
	}

	article, err := readability.FromReader(strings.NewReader(markup), parsedURL)
	if err != nil {
		return "", "", &domain.ParseError{Err: err}
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", "", &domain.ParseError{Err: errors.New("no article content found")}
	}
	return strings.TrimSpace(article.Title), article.Content, nil
}
