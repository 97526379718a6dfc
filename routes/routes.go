// Package routes wires the relay's endpoints and middleware.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeGROOVE-dev/igrelay/config"
	"github.com/codeGROOVE-dev/igrelay/handlers"
	"github.com/codeGROOVE-dev/igrelay/middleware"
)

// SetupRoutes builds the router. The rate limiter guards /scrape only;
// /health stays reachable for probes.
func SetupRoutes(cfg config.Config, scrape *handlers.ScrapeHandler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(logger))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
	scrapeHandler := middleware.ErrorHandler(scrape.Scrape, cfg.Dev(), logger)

	router.Handle("/scrape", limiter.Middleware(scrapeHandler)).Methods(http.MethodPost)
	router.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)

	return router
}
