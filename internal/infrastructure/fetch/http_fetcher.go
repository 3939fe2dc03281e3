// Package fetch retrieves web pages over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html/charset"

	"github.com/doeshing/bizlens/internal/domain"
)

// Options configures an HTTPFetcher.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	Client       *http.Client
}

// HTTPFetcher implements ports.Fetcher. It makes exactly one attempt per call
// and never returns a partial body.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewHTTPFetcher builds a fetcher, filling unset options with defaults.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultFetchTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = domain.DefaultUserAgent
	}
	maxBytes := opts.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxBodyBytes
	}
	return &HTTPFetcher{client: client, userAgent: userAgent, maxBytes: maxBytes}
}

// Fetch GETs rawURL. Network errors, timeouts, non-2xx statuses and bodies
// above the size limit are reported as *domain.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (domain.FetchedPage, error) {
	target := strings.TrimSpace(rawURL)
	parsed, err := url.Parse(target)
	if err != nil {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)}
	}
	if parsed.Host == "" {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: errors.New("URL has no host")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: fmt.Errorf("body exceeds %s", humanize.IBytes(uint64(f.maxBytes)))}
	}

	page := domain.FetchedPage{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if !page.IsPDF() {
		page.Body, err = toUTF8(body, page.ContentType)
		if err != nil {
			return domain.FetchedPage{}, &domain.FetchError{URL: target, Err: fmt.Errorf("decode body: %w", err)}
		}
	}
	return page, nil
}

func toUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
