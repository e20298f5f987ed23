package token

import (
	"errors"
	"time"

	"mercure-client/internal/cookie"
)

var (
	ErrCookieLifetimeLimitExceeded = errors.New("max age must not be more than 400 days")
	ErrNegativeMaxAge              = errors.New("max age must not be negative")
)

// MaxAge bounds the lifetime of a subscriber token. Browsers hold subscriber
// tokens in cookies, so it never exceeds cookie.MaxAgeLimit.
type MaxAge struct {
	d time.Duration
}

// MaxMaxAge is the longest allowed subscriber token lifetime.
var MaxMaxAge = MaxAge{d: cookie.MaxAgeLimit}

func NewMaxAge(d time.Duration) (MaxAge, error) {
	if d < 0 {
		return MaxAge{}, ErrNegativeMaxAge
	}
	if d > cookie.MaxAgeLimit {
		return MaxAge{}, ErrCookieLifetimeLimitExceeded
	}
	return MaxAge{d: d}, nil
}

func (m MaxAge) Duration() time.Duration { return m.d }

func (m MaxAge) String() string { return m.d.String() }
