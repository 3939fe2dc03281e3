package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error taxonomy shared by every surface. Each concrete error type below
// matches its sentinel through errors.Is.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrFetchFailure      = errors.New("fetch failed")
	ErrParseFailure      = errors.New("parse failed")
	ErrModelInvocation   = errors.New("model invocation failed")
	ErrConfiguration     = errors.New("configuration error")
)

// RateLimitError is returned when a session has used up its window.
type RateLimitError struct {
	Limit      int
	Window     time.Duration
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.Limit <= 0 {
		return "rate limit exceeded: no actions are allowed"
	}
	msg := fmt.Sprintf("rate limit exceeded: %d actions per %s", e.Limit, e.Window)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(", retry in %s", e.RetryAfter.Round(time.Second))
	}
	return msg
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimitExceeded }

// FetchError reports a network failure, timeout or non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s failed", e.URL)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailure }

// ParseError reports markup or document content that could not be read.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse error"
	}
	return "parse error: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

// ConfigError reports missing or invalid configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// Outcome classifies how a single action ended.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeEmptyInput    Outcome = "empty_input"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeFetchFailure  Outcome = "fetch_failure"
	OutcomeParseFailure  Outcome = "parse_failure"
	OutcomeModelFailure  Outcome = "model_failure"
	OutcomeConfigError   Outcome = "config_error"
	OutcomeInternalError Outcome = "internal_error"
)

// Classify maps an action error onto the outcome taxonomy.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrEmptyInput):
		return OutcomeEmptyInput
	case errors.Is(err, ErrRateLimitExceeded):
		return OutcomeRateLimited
	case errors.Is(err, ErrFetchFailure):
		return OutcomeFetchFailure
	case errors.Is(err, ErrParseFailure):
		return OutcomeParseFailure
	case errors.Is(err, ErrModelInvocation):
		return OutcomeModelFailure
	case errors.Is(err, ErrConfiguration):
		return OutcomeConfigError
	default:
		return OutcomeInternalError
	}
}

// IsWarning reports outcomes shown as warnings rather than errors.
func (o Outcome) IsWarning() bool {
	return o == OutcomeEmptyInput
}
