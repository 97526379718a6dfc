// Package auth resolves the Instagram session credential at startup. A
// credential is a small set of cookies (sessionid, optionally csrftoken)
// pulled from the first source that has one; resolution happens exactly
// once, before the server starts serving.
package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Domain is the cookie domain for all Instagram requests.
const Domain = "instagram.com"

// SessionCookie is the cookie that carries the session credential.
const SessionCookie = "sessionid"

// Source provides Instagram cookies from one location (env, browser, static).
type Source interface {
	// Cookies returns cookie name -> value, or nil if this source has none.
	Cookies(ctx context.Context) (map[string]string, error)
}

// Resolve returns cookies from the first source that provides a sessionid.
func Resolve(ctx context.Context, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx)
		if err != nil {
			return nil, err
		}
		if cookies[SessionCookie] != "" {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had a session, but this is not an error
}

// NewCookieJar creates an http.CookieJar populated with the given cookies
// for the Instagram domain.
func NewCookieJar(cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse("https://" + Domain)
	if err != nil {
		return nil, err
	}

	var httpCookies []*http.Cookie
	for name, value := range cookies {
		if value != "" {
			httpCookies = append(httpCookies, &http.Cookie{
				Name:   name,
				Value:  value,
				Domain: "." + Domain,
				Path:   "/",
			})
		}
	}

	jar.SetCookies(u, httpCookies)
	return jar, nil
}
