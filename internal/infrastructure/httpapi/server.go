package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/bizlens/internal/application/session"
	"github.com/doeshing/bizlens/internal/ports"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP server until ctx is cancelled, sweeping idle sessions
// every sweepEvery. A listen failure stops the sweeper and is returned.
func Serve(ctx context.Context, addr string, handler http.Handler, sessions *session.Registry, clock ports.Clock, sweepEvery time.Duration, logger ports.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if sl, ok := logger.(interface{ Slog() *slog.Logger }); ok {
		srv.ErrorLog = slog.NewLogLogger(sl.Slog().Handler(), slog.LevelWarn)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sweepSessions(gctx, sessions, clock, sweepEvery, logger)
		return nil
	})

	return g.Wait()
}

func sweepSessions(ctx context.Context, sessions *session.Registry, clock ports.Clock, every time.Duration, logger ports.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Sweep(clock.Now()); removed > 0 {
				logger.Debug("expired idle sessions", map[string]interface{}{
					"removed": removed,
					"live":    sessions.Len(),
				})
			}
		}
	}
}
