package storefront

import (
	"net/http"

	"github.com/dukerupert/strand/internal/cookie"
)

// cartSessionMaxAge keeps an anonymous cart session for 30 days.
const cartSessionMaxAge = 30 * 24 * 60 * 60

// GetSessionIDFromCookie retrieves the cart session token from the
// strand_cart cookie. Returns empty string if the cookie is not present.
func GetSessionIDFromCookie(r *http.Request) string {
	return cookie.Get(r, cookie.CartCookieName)
}

// SetSessionCookie hands the cart session token back to the shopper.
func SetSessionCookie(w http.ResponseWriter, sessionID string, cookieConfig *cookie.Config) {
	cookieConfig.SetSession(w, cookie.CartCookieName, sessionID, cartSessionMaxAge)
}
