// Package cookie holds the browser-facing side of Mercure authorization.
package cookie

import (
	"math"
	"net/http"
	"time"
)

// AuthorizationCookieName is the cookie a web browser should send to the hub
// carrying its JWS.
const AuthorizationCookieName = "mercureAuthorization"

// MaxAgeLimit is the largest cookie lifetime user agents honor (RFC 6265bis,
// section 5.5): 400 days.
const MaxAgeLimit = 34_560_000 * time.Second

var timeNow = time.Now

// New builds the authorization cookie for a subscriber token that expires at
// expiresAt, normally the token's own exp claim. The cookie is scoped to
// hubPath and never outlives MaxAgeLimit. A zero expiresAt produces a session
// cookie; one in the past produces a cookie the browser drops at once.
func New(token string, expiresAt time.Time, hubPath string) *http.Cookie {
	c := &http.Cookie{
		Name:     AuthorizationCookieName,
		Value:    token,
		Path:     hubPath,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if expiresAt.IsZero() {
		return c
	}

	now := timeNow()
	if limit := now.Add(MaxAgeLimit); expiresAt.After(limit) {
		expiresAt = limit
	}
	c.Expires = expiresAt.UTC()
	if remaining := expiresAt.Sub(now); remaining > 0 {
		c.MaxAge = int(math.Ceil(remaining.Seconds()))
	} else {
		c.MaxAge = -1
	}
	return c
}
