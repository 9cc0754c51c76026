package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve opens the store, applies migrations and serves the web interface until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		r.config.Server.Port = int(port)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := r.store(true)
	if err != nil {
		return err
	}
	defer store.Close()

	r.logger.Info("database ready", "dialect", store.Dialect)

	srv := server.NewHTTPServer(r.config.Server, r.handler(store))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	if cmd.Bool("open") {
		url := shared.LocalURL(ln.Addr())
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("could not open browser", "url", url, "error", err)
		}
	}

	return server.Serve(ctx, srv, ln, r.config.Server.ShutdownTimeout, r.logger)
}

// handler wires the repository, pages and middleware into one [http.Handler].
//
// Request IDs are assigned first so every later layer can log them.
func (r *Runner) handler(store *shared.Store) http.Handler {
	pages := web.NewHandlers(repositories.NewSongRepository(store), store, shared.WithLogger(r.logger, "component", "web"))

	router := server.NewBasicRouter()
	router.Use(
		server.RequestID(),
		server.Logger(r.logger),
		server.Recover(r.logger),
		server.RateLimit(r.config.Server.RequestsPerSecond, r.config.Server.Burst),
	)
	router.Handler(pages)
	router.NotFound(pages.NotFoundHandler())

	return router
}
