// Package ai provides the model provider factory and the HTTP-based provider.
//
// A single configuration-driven provider serves every hosted model:
//   - Factory: creates provider instances from model definitions
//   - HTTP provider: builds a chat or generateContent request body, sets auth
//     and extra headers, and extracts the generated text by JSON path
//
// Provider-specific behavior is controlled entirely through the model's
// APIFormat configuration.
package ai

import (
	"net/http"
	"os"

	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

const providerName = "http"

// LookupEnv resolves environment variables. os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// Factory creates AI provider instances based on model definitions.
// It keeps a single HTTP client shared across all providers.
type Factory struct {
	httpClient *http.Client
	lookupEnv  LookupEnv
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(client *http.Client) FactoryOption {
	return func(f *Factory) { f.httpClient = client }
}

// WithLookupEnv replaces the environment lookup used for API keys.
func WithLookupEnv(lookup LookupEnv) FactoryOption {
	return func(f *Factory) { f.lookupEnv = lookup }
}

// NewFactory creates a new provider factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
		lookupEnv:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ForModel creates a generic HTTP provider for any model definition.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	return &httpProvider{
		model:      model,
		httpClient: f.httpClient,
		lookupEnv:  f.lookupEnv,
	}, nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
