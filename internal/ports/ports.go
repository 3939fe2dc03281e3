// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The application depends on these abstractions, never
// on a specific HTTP client, markup parser or model API.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, DocumentParser)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/bizlens/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds model provider instances based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider invokes a hosted language model with a single text prompt.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest carries the fully rendered prompt and an optional system instruction.
type ProviderRequest struct {
	System string
	Prompt string
}

// ProviderResponse holds the generated text.
type ProviderResponse struct {
	Text string
}

// Fetcher retrieves the raw body of a page. It returns either the complete
// body of a 2xx response or a *domain.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.FetchedPage, error)
}

// Document is a parsed markup tree reduced to the operations text extraction needs.
type Document interface {
	// RemoveElements drops every subtree rooted at one of the named tags.
	RemoveElements(tags ...string)
	// Text returns the visible text with line breaks implied by block structure.
	Text() string
	// Title returns the document title, or "" when there is none.
	Title() string
}

// DocumentParser parses markup into a Document.
type DocumentParser interface {
	Parse(markup string) (Document, error)
}

// ArticleExtractor narrows a page to its main article markup.
type ArticleExtractor interface {
	Extract(markup string, pageURL string) (title string, articleHTML string, err error)
}

// PDFTextExtractor converts a PDF body to plain text.
type PDFTextExtractor interface {
	ExtractText(body []byte) (string, error)
}

// Clock abstracts the wall clock so rate limiting can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
