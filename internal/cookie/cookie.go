// Package cookie provides the cookie helpers used by the storefront for
// anonymous cart sessions.
package cookie

import (
	"net/http"
)

// Config holds cookie configuration shared by all handlers.
type Config struct {
	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// SetSession sets a session cookie.
//
// The cookie is set with:
//   - Path: "/" (available on all paths)
//   - HttpOnly: true (not accessible via JavaScript)
//   - SameSite: Lax (sent on top-level navigations and GET from third-party)
//   - Secure: based on config
func (c *Config) SetSession(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes a session cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
//
// This is a convenience wrapper around r.Cookie() that handles errors.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CartCookieName stores the anonymous cart session token for guest
// shoppers.
const CartCookieName = "strand_cart"
