package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/bizlens/internal/application/analysis"
	"github.com/doeshing/bizlens/internal/domain"
)

// LookupEnv resolves environment variables. os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return errors.New("at least one model must be configured")
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	for _, model := range cfg.Models {
		if err := validateModel(model); err != nil {
			return err
		}
	}
	if err := validateRateLimit(cfg.RateLimit); err != nil {
		return err
	}
	if err := validateFetch(cfg.Fetch); err != nil {
		return err
	}
	if err := validateServer(cfg.Server); err != nil {
		return err
	}
	if ttl, window := cfg.GetSessionTTL(), cfg.GetRateWindow(); ttl > 0 && window > 0 && ttl < window {
		return fmt.Errorf("server.session_ttl (%s) must not be shorter than rate_limit.window (%s)", ttl, window)
	}
	return validatePrompts(cfg.Prompts)
}

func validateModel(model domain.ModelDefinition) error {
	if model.Name == "" {
		return errors.New("model name must be set")
	}
	endpoint, err := url.Parse(model.Endpoint)
	if err != nil || endpoint.Host == "" || (endpoint.Scheme != "http" && endpoint.Scheme != "https") {
		return fmt.Errorf("model %s: endpoint must be an http(s) URL, got %q", model.Name, model.Endpoint)
	}
	if model.AuthEnvVar == "" {
		return fmt.Errorf("model %s: auth_env_var must be set", model.Name)
	}
	switch model.APIFormat.GetRequestFormat() {
	case domain.RequestFormatChat, domain.RequestFormatGemini:
	default:
		return fmt.Errorf("model %s: api_format.request_format must be chat|gemini, got %s", model.Name, model.APIFormat.RequestFormat)
	}
	switch model.APIFormat.GetSystemMessageMode() {
	case domain.SystemMessageModeInline, domain.SystemMessageModeSeparate:
	default:
		return fmt.Errorf("model %s: api_format.system_message_mode must be inline|separate", model.Name)
	}
	switch model.APIFormat.GetContentWrapper() {
	case domain.ContentWrapperStandard, domain.ContentWrapperAnthropic:
	default:
		return fmt.Errorf("model %s: api_format.content_wrapper must be standard|anthropic", model.Name)
	}
	if model.MaxTokens < 0 {
		return fmt.Errorf("model %s: max_tokens must be >= 0", model.Name)
	}
	return nil
}

func validateRateLimit(rl domain.RateLimitSettings) error {
	if rl.Limit < 0 {
		return fmt.Errorf("rate_limit.limit must be >= 0")
	}
	return validateDuration("rate_limit.window", rl.Window)
}

func validateFetch(fetch domain.FetchSettings) error {
	if err := validateDuration("fetch.timeout", fetch.Timeout); err != nil {
		return err
	}
	if fetch.MaxBodyBytes < 0 {
		return fmt.Errorf("fetch.max_body_bytes must be >= 0")
	}
	switch strings.ToLower(fetch.Mode) {
	case "", domain.FetchModeFull, domain.FetchModeArticle:
	default:
		return fmt.Errorf("fetch.mode must be full|article, got %s", fetch.Mode)
	}
	return nil
}

func validateServer(server domain.ServerSettings) error {
	return validateDuration("server.session_ttl", server.SessionTTL)
}

func validatePrompts(prompts domain.PromptSettings) error {
	if err := analysis.ValidatePrompt("prompts.sentiment", prompts.Sentiment); err != nil {
		return err
	}
	return analysis.ValidatePrompt("prompts.summary", prompts.Summary)
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s invalid: %w", field, err)
	}
	if d < 0 {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}

// RequireCredentials checks that the default model's API key is present in
// the environment so action commands fail before any work starts.
func RequireCredentials(cfg domain.Config, lookup LookupEnv) error {
	model, err := cfg.GetDefaultModel()
	if err != nil {
		return &domain.ConfigError{Field: "preferences.default_model", Reason: err.Error()}
	}
	if model.AuthEnvVar == "" {
		return nil
	}
	if value, ok := lookup(model.AuthEnvVar); !ok || strings.TrimSpace(value) == "" {
		return &domain.ConfigError{
			Field:  model.AuthEnvVar,
			Reason: fmt.Sprintf("environment variable is not set (required by model %s)", model.Name),
		}
	}
	return nil
}
