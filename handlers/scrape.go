// Package handlers implements the relay's HTTP endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/codeGROOVE-dev/igrelay/instagram"
	"github.com/codeGROOVE-dev/igrelay/middleware"
	"github.com/codeGROOVE-dev/igrelay/profile"
)

// Fetcher retrieves a normalized profile for a username.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (*profile.Profile, error)
}

// ScrapeHandler serves POST /scrape.
type ScrapeHandler struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewScrapeHandler creates a ScrapeHandler.
func NewScrapeHandler(fetcher Fetcher, logger *slog.Logger) *ScrapeHandler {
	return &ScrapeHandler{fetcher: fetcher, logger: logger}
}

type scrapeRequest struct {
	Username string `json:"username"`
}

type successEnvelope struct {
	Data    *profile.Profile `json:"data"`
	Success bool             `json:"success"`
}

// Scrape validates the username, fetches the profile once, and replies
// with the envelope. All failures surface as AppErrors for the boundary.
func (h *ScrapeHandler) Scrape(w http.ResponseWriter, r *http.Request) error {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Invalid request payload", err)
	}
	if req.Username == "" {
		return middleware.NewAppError(http.StatusBadRequest, "Username is required", nil)
	}
	if !instagram.IsValidUsername(req.Username) {
		return middleware.NewAppError(http.StatusBadRequest,
			"Invalid username: must be 1-30 characters of letters, digits, dot, or underscore", nil)
	}

	p, err := h.fetcher.Fetch(r.Context(), req.Username)
	if err != nil {
		return classify(err)
	}

	h.logger.Debug("profile scraped", "username", p.Username, "posts", len(p.RecentPosts))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: p}); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// classify maps the fetch error taxonomy to HTTP statuses and user-facing
// messages. Each kind gets a distinct status so callers can branch without
// inspecting message text.
func classify(err error) *middleware.AppError {
	switch {
	case errors.Is(err, profile.ErrProfileUnavailable):
		return middleware.NewAppError(http.StatusInternalServerError,
			"User not found or profile is private", err)
	case errors.Is(err, profile.ErrRateLimited):
		return middleware.NewAppError(http.StatusTooManyRequests,
			"Rate limit exceeded. Please try again later.", err)
	case errors.Is(err, profile.ErrAuthRequired):
		return middleware.NewAppError(http.StatusUnauthorized,
			"Authentication required. Please check your session ID.", err)
	case errors.Is(err, profile.ErrForbidden):
		return middleware.NewAppError(http.StatusForbidden,
			"Access forbidden by Instagram", err)
	case errors.Is(err, profile.ErrTimeout):
		return middleware.NewAppError(http.StatusGatewayTimeout,
			"Upstream request timed out", err)
	default:
		return middleware.NewAppError(http.StatusInternalServerError,
			"Failed to scrape Instagram profile", err)
	}
}
