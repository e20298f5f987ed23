package cookie

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	previous := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = previous })
}

func TestMaxAgeLimitIs400Days(t *testing.T) {
	if got, want := MaxAgeLimit, 400*24*time.Hour; got != want {
		t.Fatalf("MaxAgeLimit = %v, want %v", got, want)
	}
}

func TestNew_ScopesCookieToHub(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	c := New("tok", now.Add(time.Hour), "/.well-known/mercure")
	if c.Name != AuthorizationCookieName || c.Value != "tok" {
		t.Fatalf("cookie = %#v", c)
	}
	if c.Path != "/.well-known/mercure" || !c.Secure || !c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie attributes = %#v", c)
	}
	if c.MaxAge != 3600 {
		t.Fatalf("MaxAge = %d, want 3600", c.MaxAge)
	}
	if !strings.Contains(c.String(), "mercureAuthorization=tok") {
		t.Fatalf("String() = %q", c.String())
	}
}

func TestNew_ExpiresMatchesTokenExpiry(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 400_000_000, time.UTC)
	fixedNow(t, now)

	exp := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	c := New("tok", exp, "/.well-known/mercure")
	if !c.Expires.Equal(exp) {
		t.Fatalf("Expires = %v, want %v", c.Expires, exp)
	}
	// 3599.6s remaining rounds up so the cookie never expires before the token.
	if c.MaxAge != 3600 {
		t.Fatalf("MaxAge = %d, want 3600", c.MaxAge)
	}
}

func TestNew_CapsMaxAge(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	c := New("tok", now.Add(MaxAgeLimit+time.Hour), "/.well-known/mercure")
	if c.MaxAge != 34_560_000 {
		t.Fatalf("MaxAge = %d, want 34560000", c.MaxAge)
	}
	if want := now.Add(MaxAgeLimit); !c.Expires.Equal(want) {
		t.Fatalf("Expires = %v, want %v", c.Expires, want)
	}
}

func TestNew_SessionCookieWithoutExpiry(t *testing.T) {
	c := New("tok", time.Time{}, "/.well-known/mercure")
	if c.MaxAge != 0 || !c.Expires.IsZero() {
		t.Fatalf("expected session cookie, got MaxAge=%d Expires=%v", c.MaxAge, c.Expires)
	}
}

func TestNew_ExpiredToken(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	c := New("tok", now, "/.well-known/mercure")
	if c.MaxAge >= 0 {
		t.Fatalf("MaxAge = %d, want negative", c.MaxAge)
	}
	if !strings.Contains(c.String(), "Max-Age=0") {
		t.Fatalf("String() = %q, want Max-Age=0", c.String())
	}
}
