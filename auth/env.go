package auth

import (
	"context"
	"os"
)

// envCookies maps environment variable names to cookie names.
var envCookies = map[string]string{
	"INSTAGRAM_SESSIONID": "sessionid",
	"INSTAGRAM_CSRFTOKEN": "csrftoken",
}

// EnvSource reads cookies from environment variables.
type EnvSource struct{}

// Cookies returns cookies from INSTAGRAM_* environment variables.
func (EnvSource) Cookies(_ context.Context) (map[string]string, error) {
	cookies := make(map[string]string)
	for envVar, cookieName := range envCookies {
		if value := os.Getenv(envVar); value != "" {
			cookies[cookieName] = value
		}
	}

	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // no env vars set is not an error
	}
	return cookies, nil
}

// EnvVars returns the recognized environment variable names, for help and
// error messages.
func EnvVars() []string {
	vars := make([]string, 0, len(envCookies))
	for envVar := range envCookies {
		vars = append(vars, envVar)
	}
	return vars
}
