package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// WellKnownPath is the fixed hub path (RFC 5785 well-known URI).
const WellKnownPath = "/.well-known/mercure"

var ErrInvalidHubURL = errors.New("invalid Mercure hub URL")

// HubURL is an absolute http(s) URL whose path is WellKnownPath.
type HubURL struct {
	u url.URL
}

func NewHubURL(u *url.URL) (HubURL, error) {
	if u == nil {
		return HubURL{}, fmt.Errorf("%w: missing URL", ErrInvalidHubURL)
	}
	if !strings.EqualFold(u.Scheme, "http") && !strings.EqualFold(u.Scheme, "https") {
		return HubURL{}, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidHubURL, u.Scheme)
	}
	if u.Host == "" {
		return HubURL{}, fmt.Errorf("%w: expected absolute URL like https://example.com%s", ErrInvalidHubURL, WellKnownPath)
	}
	if u.Path != WellKnownPath {
		return HubURL{}, fmt.Errorf("%w: path must be %s, got %q", ErrInvalidHubURL, WellKnownPath, u.Path)
	}
	return HubURL{u: *u}, nil
}

func ParseHubURL(raw string) (HubURL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return HubURL{}, fmt.Errorf("%w: %w", ErrInvalidHubURL, err)
	}
	return NewHubURL(u)
}

func (h HubURL) URL() *url.URL {
	u := h.u
	return &u
}

func (h HubURL) String() string { return h.u.String() }

// Privacy controls dispatch of an update. Private updates only reach
// subscribers authorized for one of the update's topics.
type Privacy uint8

const (
	Public Privacy = iota
	Private
)

func (p Privacy) IsPrivate() bool { return p == Private }

func (p Privacy) String() string {
	if p == Private {
		return "private"
	}
	return "public"
}

// RevisionID is the hub-assigned identifier of a published update.
type RevisionID string

func (r RevisionID) String() string { return string(r) }
