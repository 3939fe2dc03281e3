package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Rate limit defaults
const (
	// DefaultRateLimit is the number of actions admitted per window
	DefaultRateLimit = 5
	// DefaultRateWindow is the trailing window length
	DefaultRateWindow = time.Hour
)

// Fetch defaults
const (
	DefaultUserAgent    = "Mozilla/5.0"
	DefaultFetchTimeout = 30 * time.Second
	// DefaultMaxBodyBytes caps a fetched page at 5MB
	DefaultMaxBodyBytes = 5 * 1024 * 1024
)

// Fetch modes
const (
	// FetchModeFull normalizes the whole page
	FetchModeFull = "full"
	// FetchModeArticle narrows the page to its main article first
	FetchModeArticle = "article"
)

// Server defaults
const (
	DefaultServerAddr  = "127.0.0.1:8501"
	DefaultSessionTTL  = time.Hour
	DefaultCookieName  = "bizlens_session"
	DefaultTimeoutSecs = 60
)

// Model configuration constants
const (
	// DefaultMaxTokens is the default maximum number of tokens
	DefaultMaxTokens = 1024
	// DefaultHTTPClientTimeout is the timeout for model HTTP requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultModelTestTimeout bounds the connectivity probe of `models test`
	DefaultModelTestTimeout = 15 * time.Second
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
