package adaptor

import (
	"net/http"

	"library-management/pkg/utils"
)

// setSessionCookie writes the session credential with the configured cookie
// attributes. HttpOnly is not configurable: the browser must never hand the
// session id to scripts.
func setSessionCookie(w http.ResponseWriter, cfg utils.SessionConfig, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    sessionID,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		MaxAge:   cfg.CookieMaxAgeSeconds,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: cfg.SameSite(),
	})
}

// clearSessionCookie expires the cookie client-side. The server-side revoke
// happens separately; this only cleans up the browser.
func clearSessionCookie(w http.ResponseWriter, cfg utils.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		MaxAge:   -1,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: cfg.SameSite(),
	})
}
