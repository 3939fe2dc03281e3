package domain

// Config mirrors the bizlens config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	RateLimit           RateLimitSettings `yaml:"rate_limit"`
	Fetch               FetchSettings     `yaml:"fetch"`
	Server              ServerSettings    `yaml:"server"`
	Prompts             PromptSettings    `yaml:"prompts"`
	Models              []ModelDefinition `yaml:"models"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// RateLimitSettings bounds how many actions one session may complete
// within the trailing window.
type RateLimitSettings struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"`
}

// FetchSettings configures webpage retrieval.
type FetchSettings struct {
	UserAgent    string `yaml:"user_agent"`
	Timeout      string `yaml:"timeout"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	Mode         string `yaml:"mode"`
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Addr       string `yaml:"addr"`
	SessionTTL string `yaml:"session_ttl"`
	CookieName string `yaml:"cookie_name"`
}

// PromptSettings holds the text/template sources for each action.
type PromptSettings struct {
	System    string `yaml:"system,omitempty"`
	Sentiment string `yaml:"sentiment"`
	Summary   string `yaml:"summary"`
}
