// Package selector implements Mercure topic selectors: expressions matched
// against topics, used inside JWT claims to scope publish and subscribe rights.
package selector

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yosida95/uritemplate/v3"
)

const wildcardLiteral = "*"

type kind uint8

const (
	kindInvalid kind = iota
	kindWildcard
	kindTemplate
)

// Selector is either the wildcard or a URI Template. The zero value is not a
// valid selector and refuses to marshal.
type Selector struct {
	kind     kind
	template URITemplate
}

// Wildcard matches every topic.
var Wildcard = Selector{kind: kindWildcard}

var ErrInvalidSelector = errors.New("uninitialized topic selector")

// FromTemplate wraps a parsed URI Template.
//
// Templates should be in absolute form and expand to a valid URL. This cannot
// be checked and stays the caller's responsibility.
func FromTemplate(t URITemplate) Selector {
	if !t.ok {
		return Selector{}
	}
	return Selector{kind: kindTemplate, template: t}
}

// Parse maps "*" to Wildcard and anything else to a URI Template selector.
func Parse(s string) (Selector, error) {
	if s == wildcardLiteral {
		return Wildcard, nil
	}
	t, err := ParseURITemplate(s)
	if err != nil {
		return Selector{}, err
	}
	return FromTemplate(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Selector {
	sel, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sel
}

func (s Selector) IsWildcard() bool { return s.kind == kindWildcard }

func (s Selector) IsValid() bool { return s.kind != kindInvalid }

// Template returns the URI Template of a template selector.
func (s Selector) Template() (URITemplate, bool) {
	if s.kind != kindTemplate {
		return URITemplate{}, false
	}
	return s.template, true
}

func (s Selector) String() string {
	switch s.kind {
	case kindWildcard:
		return wildcardLiteral
	case kindTemplate:
		return s.template.raw
	default:
		return ""
	}
}

// Compare orders Wildcard before every template; templates compare by their
// raw text. Invalid selectors sort first.
func Compare(a, b Selector) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	return strings.Compare(a.template.raw, b.template.raw)
}

func Sort(selectors []Selector) {
	slices.SortFunc(selectors, Compare)
}

func (s Selector) MarshalJSON() ([]byte, error) {
	if s.kind == kindInvalid {
		return nil, ErrInvalidSelector
	}
	return json.Marshal(s.String())
}

func (s *Selector) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("topic selector must be a JSON string: %w", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// URITemplate is a syntactically valid RFC 6570 URI Template. The empty
// template is valid; the zero value is not, since only ParseURITemplate sets ok.
type URITemplate struct {
	raw string
	ok  bool
}

// ParseError reports a string that is not a valid URI Template.
type ParseError struct {
	Template string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse URI Template %q: %v", e.Template, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseURITemplate checks s against the URI Template grammar. No expansion
// is performed.
func ParseURITemplate(s string) (URITemplate, error) {
	if _, err := uritemplate.New(s); err != nil {
		return URITemplate{}, &ParseError{Template: s, Err: err}
	}
	return URITemplate{raw: s, ok: true}, nil
}

func (t URITemplate) String() string { return t.raw }
