package domain

import (
	"fmt"
	"time"
)

// GetDefaultModel retrieves the default model definition from configuration
// Returns an error if the default model is not found
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// PickModel resolves an explicit override or falls back to the default model.
func (c *Config) PickModel(override string) (ModelDefinition, error) {
	if override == "" {
		return c.GetDefaultModel()
	}
	if model, ok := c.FindModelByName(override); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("model %s not configured", override)
}

// GetRateLimit returns the number of actions admitted per window.
func (c *Config) GetRateLimit() int {
	if c.RateLimit.Limit <= 0 {
		return DefaultRateLimit
	}
	return c.RateLimit.Limit
}

// GetRateWindow returns the trailing window length.
func (c *Config) GetRateWindow() time.Duration {
	return parseDurationOr(c.RateLimit.Window, DefaultRateWindow)
}

// GetFetchTimeout returns the webpage fetch timeout.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDurationOr(c.Fetch.Timeout, DefaultFetchTimeout)
}

// GetUserAgent returns the User-Agent sent when fetching pages.
func (c *Config) GetUserAgent() string {
	if c.Fetch.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.Fetch.UserAgent
}

// GetMaxBodyBytes returns the largest page body accepted.
func (c *Config) GetMaxBodyBytes() int64 {
	if c.Fetch.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return c.Fetch.MaxBodyBytes
}

// GetFetchMode returns full or article.
func (c *Config) GetFetchMode() string {
	if c.Fetch.Mode == "" {
		return FetchModeFull
	}
	return c.Fetch.Mode
}

// GetServerAddr returns the HTTP listen address.
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// GetSessionTTL returns how long an idle HTTP session is kept.
func (c *Config) GetSessionTTL() time.Duration {
	return parseDurationOr(c.Server.SessionTTL, DefaultSessionTTL)
}

// GetCookieName returns the session cookie name.
func (c *Config) GetCookieName() string {
	if c.Server.CookieName == "" {
		return DefaultCookieName
	}
	return c.Server.CookieName
}

// GetTimeout returns the overall per-action timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Preferences.TimeoutSeconds <= 0 {
		return DefaultTimeoutSecs * time.Second
	}
	return time.Duration(c.Preferences.TimeoutSeconds) * time.Second
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s does not exist in models list", c.Preferences.DefaultModel)
	}
	seen := make(map[string]bool, len(c.Models))
	for _, model := range c.Models {
		if seen[model.Name] {
			return fmt.Errorf("model %s is declared more than once", model.Name)
		}
		seen[model.Name] = true
	}
	return nil
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
