// Package topic models the identifiers of an updated resource.
//
// The first URL of a topic is its canonical IRI, any following URLs are
// alternate IRIs. The hub dispatches an update to subscribers of either.
package topic

import (
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strings"
)

type Topic struct {
	canonical  *url.URL
	alternates []*url.URL
}

var (
	ErrEmptyURL       = errors.New("topic URL must not be empty")
	ErrNotAbsoluteURL = errors.New("topic URL must be absolute")
)

// New builds a topic from a canonical URL and its alternates. Inputs are
// copied; alternates keep their order and duplicates are preserved.
func New(canonical *url.URL, alternates ...*url.URL) Topic {
	t := Topic{canonical: cloneURL(canonical)}
	if len(alternates) > 0 {
		t.alternates = make([]*url.URL, 0, len(alternates))
		for _, u := range alternates {
			t.alternates = append(t.alternates, cloneURL(u))
		}
	}
	return t
}

// Parse builds a topic from string URLs.
func Parse(canonical string, alternates ...string) (Topic, error) {
	c, err := parseURL(canonical)
	if err != nil {
		return Topic{}, fmt.Errorf("canonical topic: %w", err)
	}
	alts := make([]*url.URL, 0, len(alternates))
	for i, raw := range alternates {
		u, err := parseURL(raw)
		if err != nil {
			return Topic{}, fmt.Errorf("alternate topic %d: %w", i, err)
		}
		alts = append(alts, u)
	}
	return New(c, alts...), nil
}

func parseURL(raw string) (*url.URL, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, ErrEmptyURL
	}
	u, err := url.Parse(value)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrNotAbsoluteURL, value)
	}
	return u, nil
}

func (t Topic) Canonical() *url.URL {
	return cloneURL(t.canonical)
}

func (t Topic) Alternates() []*url.URL {
	out := make([]*url.URL, 0, len(t.alternates))
	for _, u := range t.alternates {
		out = append(out, cloneURL(u))
	}
	return out
}

// Len reports the number of URLs yielded by All.
func (t Topic) Len() int {
	return 1 + len(t.alternates)
}

// All yields the canonical URL followed by the alternates.
func (t Topic) All() iter.Seq[*url.URL] {
	return func(yield func(*url.URL) bool) {
		if !yield(cloneURL(t.canonical)) {
			return
		}
		for _, u := range t.alternates {
			if !yield(cloneURL(u)) {
				return
			}
		}
	}
}

// Backward yields the alternates in reverse order, then the canonical URL.
func (t Topic) Backward() iter.Seq[*url.URL] {
	return func(yield func(*url.URL) bool) {
		for i := len(t.alternates) - 1; i >= 0; i-- {
			if !yield(cloneURL(t.alternates[i])) {
				return
			}
		}
		yield(cloneURL(t.canonical))
	}
}

func (t Topic) URLs() []*url.URL {
	out := make([]*url.URL, 0, t.Len())
	for u := range t.All() {
		out = append(out, u)
	}
	return out
}

// Strings renders every URL in All order.
func (t Topic) Strings() []string {
	out := make([]string, 0, t.Len())
	for u := range t.All() {
		if u == nil {
			out = append(out, "")
			continue
		}
		out = append(out, u.String())
	}
	return out
}

func (t Topic) String() string {
	return strings.Join(t.Strings(), " ")
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
