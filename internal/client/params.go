package client

import (
	"errors"
	"strings"

	"mercure-client/internal/topic"
)

const (
	formContentType = "application/x-www-form-urlencoded"
	privateOn       = "on"
)

var errMissingTopicURL = errors.New("topic URL must not be nil")

// EncodeUpdate renders the body of a publish request. Field order is fixed:
// one "topic" per URL with the canonical URL first, then "data" if present,
// then "private=on" for private updates. Absent fields are left out entirely;
// the hub treats the presence of "private" as the privacy flag.
func EncodeUpdate(t topic.Topic, data *string, privacy Privacy) (string, error) {
	var b strings.Builder
	appendField := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(formEscape(key))
		b.WriteByte('=')
		b.WriteString(formEscape(value))
	}

	for u := range t.All() {
		if u == nil {
			return "", errMissingTopicURL
		}
		appendField("topic", u.String())
	}
	if data != nil {
		appendField("data", *data)
	}
	if privacy.IsPrivate() {
		appendField("private", privateOn)
	}
	return b.String(), nil
}

// formEscape applies the application/x-www-form-urlencoded byte serializer:
// ASCII alphanumerics and "*-._" pass through, space becomes "+", every other
// byte is percent-encoded with uppercase hex.
func formEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '*' || c == '-' || c == '.' || c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
