package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/doeshing/bizlens/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.Outcome
	}{
		{"nil", nil, domain.OutcomeSuccess},
		{"empty input", domain.ErrEmptyInput, domain.OutcomeEmptyInput},
		{"rate limited", &domain.RateLimitError{Limit: 5, Window: time.Hour}, domain.OutcomeRateLimited},
		{"fetch wrapped", fmt.Errorf("summarize: %w", &domain.FetchError{URL: "https://x", StatusCode: 404}), domain.OutcomeFetchFailure},
		{"parse", &domain.ParseError{Err: errors.New("bad")}, domain.OutcomeParseFailure},
		{"model", fmt.Errorf("%w: boom", domain.ErrModelInvocation), domain.OutcomeModelFailure},
		{"config", &domain.ConfigError{Field: "GOOGLE_API_KEY", Reason: "not set"}, domain.OutcomeConfigError},
		{"other", errors.New("surprise"), domain.OutcomeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFetchErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &domain.FetchError{URL: "https://example.com", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected FetchError to unwrap its cause")
	}
	if !errors.Is(err, domain.ErrFetchFailure) {
		t.Fatal("expected FetchError to match ErrFetchFailure")
	}
}

func TestRateLimitErrorMessage(t *testing.T) {
	err := &domain.RateLimitError{Limit: 5, Window: time.Hour, RetryAfter: 90 * time.Second}
	want := "rate limit exceeded: 5 actions per 1h0m0s, retry in 1m30s"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUsageLogPruneKeepsStrictlyNewer(t *testing.T) {
	base := time.Unix(1000, 0)
	log := domain.UsageLog{base, base.Add(time.Second), base.Add(2 * time.Second)}

	pruned := log.Prune(base.Add(time.Second))
	if len(pruned) != 1 || !pruned[0].Equal(base.Add(2*time.Second)) {
		t.Fatalf("Prune() = %v", pruned)
	}
	if len(log) != 3 {
		t.Fatal("Prune must not modify the receiver")
	}
}
