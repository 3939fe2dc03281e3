package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/application/session"
	"github.com/doeshing/bizlens/internal/infrastructure/httpapi"
)

const minSweepInterval = time.Minute

// NewServeCommand creates the serve command.
func NewServeCommand(env *Env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API with cookie-scoped sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := env.container()
			if err != nil {
				return err
			}
			cfg, err := actionConfig(cmd.Context(), c)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.GetServerAddr()
			}

			ttl := cfg.GetSessionTTL()
			registry := session.NewRegistry(cfg.GetRateLimit(), cfg.GetRateWindow(), ttl)
			handler := httpapi.NewHandler(httpapi.Deps{
				Analyzer:   c.AnalysisService,
				Sessions:   registry,
				Clock:      c.Clock,
				Logger:     c.Logger,
				CookieName: cfg.GetCookieName(),
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)
			return httpapi.Serve(cmd.Context(), addr, handler, registry, c.Clock, sweepInterval(ttl), c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config server.addr)")
	return cmd
}

// sweepInterval checks for idle sessions twice per TTL, never more often
// than once a minute. A zero TTL disables sweeping.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	if every := ttl / 2; every > minSweepInterval {
		return every
	}
	return minSweepInterval
}
