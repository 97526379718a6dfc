// Package instagram fetches Instagram profile data using an authenticated
// session cookie and flattens the upstream document into profile.Profile.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/igrelay/auth"
	"github.com/codeGROOVE-dev/igrelay/profile"
)

// Endpoint selects which upstream API shape to query. Both return the same
// logical data.user document.
type Endpoint string

// Supported upstream endpoints.
const (
	// EndpointGraphQL is the GraphQL query endpoint keyed by a fixed query hash.
	EndpointGraphQL Endpoint = "graphql"
	// EndpointWebProfile is the REST web_profile_info endpoint keyed by username.
	EndpointWebProfile Endpoint = "web_profile_info"
)

const (
	graphqlURL     = "https://www.instagram.com/graphql/query/"
	webProfileURL  = "https://i.instagram.com/api/v1/users/web_profile_info/"
	queryHash      = "c9100bf9110d5eac54a2246af9098ec6" // user profile query
	mediaPageSize  = 12
	maxRedirects   = 5
	defaultTimeout = 30 * time.Second
	maxBodySize    = 4 << 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	igAppID   = "936619743392459"
	asbdID    = "198387"
)

// IsValidUsername validates an Instagram username: 1-30 characters, letters,
// digits, dot, or underscore only.
func IsValidUsername(username string) bool {
	if len(username) < 1 || len(username) > 30 {
		return false
	}
	for _, r := range username {
		isLower := r >= 'a' && r <= 'z'
		isUpper := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if !isLower && !isUpper && !isDigit && r != '.' && r != '_' {
			return false
		}
	}
	return true
}

// Client handles Instagram requests with an authenticated session cookie.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   Endpoint
	baseURL    string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cookies        map[string]string
	logger         *slog.Logger
	endpoint       Endpoint
	baseURL        string
	timeout        time.Duration
	browserCookies bool
}

// WithCookies sets explicit cookie values.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithBrowserCookies enables reading cookies from browser stores.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithEndpoint selects the upstream endpoint shape.
func WithEndpoint(endpoint Endpoint) Option {
	return func(c *config) { c.endpoint = endpoint }
}

// WithTimeout overrides the default 30s upstream timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithBaseURL overrides the upstream base URL. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// New creates an Instagram client. Cookie sources are checked in order:
// WithCookies > environment > browser. A missing sessionid is a hard
// failure so the process can refuse to start.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), endpoint: EndpointGraphQL, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	var sources []auth.Source
	if len(cfg.cookies) > 0 {
		sources = append(sources, auth.NewStaticSource(cfg.cookies))
	}
	sources = append(sources, auth.EnvSource{})
	if cfg.browserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger))
	}

	cookies, err := auth.Resolve(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("cookie retrieval failed: %w", err)
	}
	if cookies[auth.SessionCookie] == "" {
		return nil, fmt.Errorf("%w: set %v or use WithCookies/WithBrowserCookies",
			profile.ErrNoCookies, auth.EnvVars())
	}

	jar, err := auth.NewCookieJar(cookies)
	if err != nil {
		return nil, fmt.Errorf("cookie jar creation failed: %w", err)
	}

	cfg.logger.InfoContext(ctx, "instagram client created",
		"cookie_count", len(cookies), "endpoint", string(cfg.endpoint))

	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		logger:   cfg.logger,
		endpoint: cfg.endpoint,
		baseURL:  cfg.baseURL,
	}, nil
}

// buildRequest constructs the single outbound call for a username. Pure
// function of (username, endpoint); the session credential rides in the jar.
func (c *Client) buildRequest(ctx context.Context, username string) (*http.Request, error) {
	var apiURL string
	switch c.endpoint {
	case EndpointWebProfile:
		base := webProfileURL
		if c.baseURL != "" {
			base = c.baseURL
		}
		apiURL = base + "?username=" + url.QueryEscape(username)
	default:
		variables := fmt.Sprintf(`{"username":%q,"first":%d}`, username, mediaPageSize)
		base := graphqlURL
		if c.baseURL != "" {
			base = c.baseURL
		}
		apiURL = base + "?query_hash=" + queryHash + "&variables=" + url.QueryEscape(variables)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-IG-App-ID", igAppID)
	req.Header.Set("X-ASBD-ID", asbdID)
	req.Header.Set("X-IG-WWW-Claim", "0")
	req.Header.Set("Origin", "https://www.instagram.com")
	req.Header.Set("Referer", "https://www.instagram.com/"+username+"/")
	req.Header.Set("Connection", "keep-alive")

	return req, nil
}

// Fetch retrieves and normalizes an Instagram profile.
func (c *Client) Fetch(ctx context.Context, username string) (*profile.Profile, error) {
	c.logger.InfoContext(ctx, "fetching instagram profile",
		"username", username, "endpoint", string(c.endpoint))

	req, err := c.buildRequest(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", profile.ErrTimeout, username)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error ignored intentionally

	if err := classifyStatus(resp.StatusCode); err != nil {
		c.logger.Debug("upstream error", "status", resp.StatusCode, "username", username)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", profile.ErrTimeout, username)
		}
		return nil, fmt.Errorf("reading response failed: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return Normalize(doc, username)
}

// classifyStatus maps an upstream HTTP status to the error taxonomy.
// 200 means the body must still be inspected for a usable user document.
func classifyStatus(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: upstream returned 404", profile.ErrProfileUnavailable)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: upstream returned 429", profile.ErrRateLimited)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: upstream returned 401", profile.ErrAuthRequired)
	case http.StatusForbidden:
		return fmt.Errorf("%w: upstream returned 403", profile.ErrForbidden)
	default:
		return fmt.Errorf("unexpected status: %d", code)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
