// Package token issues Mercure JWT access tokens.
//
// A token is signed exactly once, with HS256, when it is constructed. Publisher
// tokens carry only "mercure.publish", subscriber tokens only
// "mercure.subscribe"; the side a token does not grant is omitted from the
// claims entirely.
package token

import (
	"log/slog"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mercure-client/internal/selector"
)

const (
	rolePublisher  = "publisher"
	roleSubscriber = "subscriber"
)

var timeNow = time.Now

type claims struct {
	Mercure mercureClaim `json:"mercure"`
	jwt.RegisteredClaims
}

type mercureClaim struct {
	// Topic selectors the holder may publish to.
	Publish *[]selector.Selector `json:"publish,omitempty"`
	// Topic selectors the holder may receive private updates for.
	Subscribe *[]selector.Selector `json:"subscribe,omitempty"`
}

// Publisher is a signed publisher JWT.
type Publisher struct {
	encoded   string
	selectors []selector.Selector
}

// Subscriber is a signed subscriber JWT.
type Subscriber struct {
	encoded   string
	selectors []selector.Selector
	expiresAt time.Time
}

// NewPublisher signs a token allowing publication to topics matching
// selectors. Publisher tokens never expire.
func NewPublisher(secret PublisherSecret, selectors []selector.Selector) (*Publisher, error) {
	granted := grant(selectors)
	encoded, err := sign(secret.secretBytes, claims{Mercure: mercureClaim{Publish: &granted}})
	if err != nil {
		return nil, &Error{Kind: KindEncodeAndSign, Role: rolePublisher, Err: err}
	}
	return &Publisher{encoded: encoded, selectors: granted}, nil
}

// NewSubscriber signs a token allowing subscription to private updates on
// topics matching selectors.
//
// A nil maxAge issues a token without expiry. Subscriber tokens should be
// short-lived, especially when held by a web browser, since revoking a JWS
// before it expires is hard.
func NewSubscriber(secret SubscriberSecret, maxAge *MaxAge, selectors []selector.Selector) (*Subscriber, error) {
	granted := grant(selectors)
	c := claims{Mercure: mercureClaim{Subscribe: &granted}}

	var expiresAt time.Time
	if maxAge != nil {
		now := timeNow()
		expiresAt = now.Add(maxAge.d)
		if expiresAt.Before(now) {
			panic("token: subscriber expiry overflows time.Time")
		}
		c.ExpiresAt = jwt.NewNumericDate(expiresAt)
		expiresAt = c.ExpiresAt.Time
	}

	encoded, err := sign(secret.secretBytes, c)
	if err != nil {
		return nil, &Error{Kind: KindEncodeAndSign, Role: roleSubscriber, Err: err}
	}
	return &Subscriber{encoded: encoded, selectors: granted, expiresAt: expiresAt}, nil
}

func grant(selectors []selector.Selector) []selector.Selector {
	if selectors == nil {
		return []selector.Selector{}
	}
	return slices.Clone(selectors)
}

func sign(secret *secretBytes, c claims) (string, error) {
	var encoded string
	err := secret.use(func(key []byte) error {
		signed, signErr := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
		if signErr != nil {
			return signErr
		}
		encoded = signed
		return nil
	})
	return encoded, err
}

// String returns the compact JWS.
func (p *Publisher) String() string { return p.encoded }

func (p *Publisher) Selectors() []selector.Selector { return slices.Clone(p.selectors) }

func (p *Publisher) LogValue() slog.Value { return slog.StringValue(redacted) }

// String returns the compact JWS.
func (s *Subscriber) String() string { return s.encoded }

func (s *Subscriber) Selectors() []selector.Selector { return slices.Clone(s.selectors) }

// ExpiresAt returns the "exp" claim, if the token has one.
func (s *Subscriber) ExpiresAt() (time.Time, bool) {
	return s.expiresAt, !s.expiresAt.IsZero()
}

func (s *Subscriber) LogValue() slog.Value { return slog.StringValue(redacted) }
