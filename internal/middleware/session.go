package middleware

import (
	"net/http"
	"time"

	"github.com/dukerupert/vortex/internal/cookie"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/session"
)

// SessionConfig configures the shopper session cookie.
type SessionConfig struct {
	Cookie     *cookie.Config
	CookieName string
	MaxAge     time.Duration
}

// Session resolves the shopper session from its cookie, issuing a new ID when
// the cookie is missing or malformed. The cookie is refreshed on every
// response so active sessions do not expire.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Cookie == nil {
		cfg.Cookie = cookie.NewConfig("", true)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = cookie.SessionCookieName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := cookie.Get(r, cfg.CookieName)
			if !session.ValidID(sessionID) {
				if sessionID != "" {
					GetLogger(r.Context()).Info("replacing malformed session cookie")
				}
				sessionID = session.NewID()
			}

			cfg.Cookie.SetSession(w, cfg.CookieName, sessionID, cfg.MaxAge)

			ctx := domain.NewContextWithSessionID(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
