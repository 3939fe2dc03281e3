package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/doeshing/bizlens/internal/app"
	configapp "github.com/doeshing/bizlens/internal/application/config"
	"github.com/doeshing/bizlens/internal/application/ratelimit"
	"github.com/doeshing/bizlens/internal/domain"
)

// Env carries what subcommands share once global flags are parsed. The root
// command fills Container before any RunE executes.
type Env struct {
	Container *app.Container
	Format    string
}

func (e *Env) container() (*app.Container, error) {
	if e == nil || e.Container == nil {
		return nil, errors.New(ErrContainerUnavailable)
	}
	return e.Container, nil
}

// actionConfig loads the config and checks the default model's credentials.
func actionConfig(ctx context.Context, c *app.Container) (domain.Config, error) {
	cfg, err := c.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.Config{}, fmt.Errorf("%w: load config: %w", domain.ErrConfiguration, err)
	}
	lookup := c.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := configapp.RequireCredentials(cfg, lookup); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// newSession starts a fresh session bounded by the configured rate limit.
func newSession(cfg domain.Config) *ratelimit.Session {
	return ratelimit.NewSession(uuid.NewString(), cfg.GetRateLimit(), cfg.GetRateWindow())
}
