package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	configapp "github.com/doeshing/bizlens/internal/application/config"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	LookupEnv      configapp.LookupEnv
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded format %s", cfg.ConfigFormatVersion)))

	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config validation", err.Error()))
	} else {
		checks = append(checks, ok("Config validation", fmt.Sprintf("%d model(s) configured", len(cfg.Models))))
	}

	checks = append(checks, s.apiCheck(cfg))
	checks = append(checks, rateLimitCheck(cfg))
	checks = append(checks, ok("Fetch", fmt.Sprintf("mode %s, timeout %s, max body %s",
		cfg.GetFetchMode(), cfg.GetFetchTimeout(), humanize.IBytes(uint64(cfg.GetMaxBodyBytes())))))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) apiCheck(cfg domain.Config) domain.HealthCheck {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if err := configapp.RequireCredentials(cfg, lookup); err != nil {
		return fail("API key", err.Error())
	}

	var missing []string
	for _, model := range cfg.Models {
		if model.Name == cfg.Preferences.DefaultModel || model.AuthEnvVar == "" {
			continue
		}
		if value, found := lookup(model.AuthEnvVar); !found || value == "" {
			missing = append(missing, model.AuthEnvVar)
		}
	}
	if len(missing) > 0 {
		return warn("API key", fmt.Sprintf("default model ready; optional keys missing: %v", missing))
	}
	return ok("API key", "detected for all configured models")
}

func rateLimitCheck(cfg domain.Config) domain.HealthCheck {
	limit, window := cfg.GetRateLimit(), cfg.GetRateWindow()
	if window <= 0 {
		return warn("Rate limit", "window is zero; every action is admitted")
	}
	return ok("Rate limit", fmt.Sprintf("%d actions per %s per session", limit, window))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
