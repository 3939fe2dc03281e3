// Package domain defines core business entities and value objects for bizlens.
//
// This file contains language-model definitions used throughout the application.
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures.
package domain

// ModelDefinition describes a hosted model endpoint declared in the config file.
// Each model represents a specific API endpoint with its authentication and
// generation parameters.
type ModelDefinition struct {
	Name       string    `yaml:"name"`
	Endpoint   string    `yaml:"endpoint"`
	AuthEnvVar string    `yaml:"auth_env_var"`
	OrgEnvVar  string    `yaml:"org_env_var,omitempty"`
	ModelID    string    `yaml:"model_id"`
	MaxTokens  int       `yaml:"max_tokens,omitempty"`
	APIFormat  APIFormat `yaml:"api_format,omitempty"`
}

// APIFormat defines how to construct requests and parse responses for different model APIs.
// All fields are optional with sensible defaults (OpenAI-compatible format).
type APIFormat struct {
	// RequestFormat selects the request body layout.
	// Values: "chat" (default) - OpenAI style messages array
	//         "gemini" - contents/parts layout of generateContent
	RequestFormat string `yaml:"request_format,omitempty"`

	// AuthHeaderName specifies the HTTP header name for authentication.
	// Default: "Authorization"
	AuthHeaderName string `yaml:"auth_header_name,omitempty"`

	// AuthHeaderPrefix is prepended to the API key value.
	// Default: "Bearer " (with trailing space)
	// Set to empty string for providers that don't use a prefix (e.g., "x-api-key")
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`

	// SystemMessageMode controls how system messages are sent to the API.
	// Values: "inline" (default) - system messages in the messages array
	//         "separate" - system messages in a separate "system" field (Anthropic)
	SystemMessageMode string `yaml:"system_message_mode,omitempty"`

	// ContentWrapper controls how message content is formatted.
	// Values: "standard" (default) - direct string content
	//         "anthropic" - wrap in [{"type": "text", "text": "..."}] array
	ContentWrapper string `yaml:"content_wrapper,omitempty"`

	// ResponseJSONPath specifies where to extract the generated text from the response.
	// Default: "choices[0].message.content" (OpenAI format)
	ResponseJSONPath string `yaml:"response_json_path,omitempty"`

	// ExtraHeaders contains additional HTTP headers to send with each request.
	ExtraHeaders map[string]string `yaml:"extra_headers,omitempty"`
}

// PromptMessage follows the role/content pair required by most chat APIs.
type PromptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// API Format Constants define standard values for APIFormat fields.
const (
	// Request formats
	RequestFormatChat   = "chat"
	RequestFormatGemini = "gemini"

	// Auth header defaults
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "

	// System message modes
	SystemMessageModeInline   = "inline"
	SystemMessageModeSeparate = "separate"

	// Content wrappers
	ContentWrapperStandard  = "standard"
	ContentWrapperAnthropic = "anthropic"

	// Response JSON paths
	DefaultResponsePath   = "choices[0].message.content"
	AnthropicResponsePath = "content[0].text"
	GeminiResponsePath    = "candidates[0].content.parts[0].text"
)

// GetRequestFormat returns the request layout with default fallback.
func (f APIFormat) GetRequestFormat() string {
	if f.RequestFormat == "" {
		return RequestFormatChat
	}
	return f.RequestFormat
}

// GetAuthHeaderName returns the authentication header name with default fallback.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix returns the authentication header prefix with default fallback.
// A customized header name with no prefix means no prefix at all.
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderName != "" && f.AuthHeaderPrefix == "" {
		return ""
	}
	if f.AuthHeaderPrefix == "" && f.AuthHeaderName == "" {
		return DefaultAuthHeaderPrefix
	}
	return f.AuthHeaderPrefix
}

// GetSystemMessageMode returns the system message handling mode with default fallback.
func (f APIFormat) GetSystemMessageMode() string {
	if f.SystemMessageMode == "" {
		return SystemMessageModeInline
	}
	return f.SystemMessageMode
}

// GetContentWrapper returns the content wrapper format with default fallback.
func (f APIFormat) GetContentWrapper() string {
	if f.ContentWrapper == "" {
		return ContentWrapperStandard
	}
	return f.ContentWrapper
}

// GetResponseJSONPath returns the JSON path for extracting response content.
// Gemini requests default to the generateContent path.
func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath != "" {
		return f.ResponseJSONPath
	}
	if f.GetRequestFormat() == RequestFormatGemini {
		return GeminiResponsePath
	}
	return DefaultResponsePath
}

// IsSystemMessageSeparate returns true if system messages should be in a separate field.
func (f APIFormat) IsSystemMessageSeparate() bool {
	return f.GetSystemMessageMode() == SystemMessageModeSeparate
}

// IsContentWrapped returns true if content should be wrapped in Anthropic's array format.
func (f APIFormat) IsContentWrapped() bool {
	return f.GetContentWrapper() == ContentWrapperAnthropic
}
