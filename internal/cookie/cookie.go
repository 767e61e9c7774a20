// Package cookie provides the session cookie helpers. All session cookies
// should go through this package so attributes stay consistent.
package cookie

import (
	"net/http"
	"time"
)

// SessionCookieName is the default name of the shopper session cookie.
const SessionCookieName = "vortex_session"

// Config holds cookie configuration.
type Config struct {
	// Domain scopes the cookie. Empty means host-only.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
//
// Example:
//
//	cfg := cookie.NewConfig("", true)           // production, host-only
//	cfg := cookie.NewConfig("shop.test", false) // development
func NewConfig(domain string, secure bool) *Config {
	return &Config{
		Domain: domain,
		Secure: secure,
	}
}

// SetSession sets an HttpOnly, SameSite=Lax session cookie on path "/".
func (c *Config) SetSession(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, c.base(name, value, int(maxAge/time.Second)))
}

// SetSessionWithExpiry sets a session cookie that expires at a fixed time.
func (c *Config) SetSessionWithExpiry(w http.ResponseWriter, name, value string, expires time.Time) {
	ck := c.base(name, value, 0)
	ck.Expires = expires
	http.SetCookie(w, ck)
}

// ClearSession removes a session cookie.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, c.base(name, "", -1))
}

func (c *Config) base(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
