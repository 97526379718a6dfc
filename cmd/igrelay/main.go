// Command igrelay serves a single-endpoint HTTP relay: POST /scrape with a
// username fetches the Instagram profile through an authenticated session
// and returns a flattened JSON record.
//
// The session credential is required and resolved once at startup: set
// INSTAGRAM_SESSIONID (and optionally INSTAGRAM_CSRFTOKEN), or enable
// BROWSER_COOKIES=true to read it from a browser cookie store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/codeGROOVE-dev/igrelay/config"
	"github.com/codeGROOVE-dev/igrelay/handlers"
	"github.com/codeGROOVE-dev/igrelay/instagram"
	"github.com/codeGROOVE-dev/igrelay/routes"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	envLoaded := godotenv.Load() == nil

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if !envLoaded {
		logger.Debug("no .env file found; using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts := []instagram.Option{
		instagram.WithLogger(logger),
		instagram.WithEndpoint(cfg.Upstream.Endpoint),
		instagram.WithTimeout(cfg.Upstream.Timeout),
	}
	if cfg.Upstream.BrowserCookies {
		opts = append(opts, instagram.WithBrowserCookies())
	}

	// Fails when no source provides a session credential; the process must
	// not start without one.
	client, err := instagram.New(context.Background(), opts...)
	if err != nil {
		return err
	}

	scrape := handlers.NewScrapeHandler(client, logger)
	router := routes.SetupRoutes(cfg, scrape, logger)

	corsOpts := []gorillaHandlers.CORSOption{
		gorillaHandlers.AllowedOrigins(cfg.CORS.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gorillaHandlers.CORS(corsOpts...)(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Upstream.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"endpoint", string(cfg.Upstream.Endpoint),
		"rate_limit", cfg.RateLimit.Max,
		"rate_window", cfg.RateLimit.Window.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, srv, cfg.Upstream.Timeout, logger)
}

// serve runs the server until it fails or ctx is canceled, then drains
// in-flight requests. The grace period covers a /scrape that is mid
// upstream call when the signal arrives.
func serve(ctx context.Context, srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", grace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace+5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
