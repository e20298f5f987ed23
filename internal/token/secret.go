package token

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
)

const redacted = "[REDACTED]"

// RecommendedSecretLen is the advisory minimum HMAC key length in bytes.
const RecommendedSecretLen = 64

var (
	ErrSecretUnusable  = errors.New("jwt secret is missing, empty or destroyed")
	errSecretSerialize = errors.New("jwt secret must not be serialized")
)

// secretBytes owns key material. It never prints and is zeroed by Destroy or
// once unreachable.
type secretBytes struct {
	mu        sync.RWMutex
	key       []byte
	destroyed bool
}

func newSecretBytes(b []byte) *secretBytes {
	s := &secretBytes{key: bytes.Clone(b)}
	runtime.AddCleanup(s, func(key []byte) { clear(key) }, s.key)
	return s
}

func (s *secretBytes) use(fn func(key []byte) error) error {
	if s == nil {
		return ErrSecretUnusable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destroyed || len(s.key) == 0 {
		return ErrSecretUnusable
	}
	return fn(s.key)
}

// Destroy zeroes the key. Tokens can no longer be issued from it.
func (s *secretBytes) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.key)
	s.destroyed = true
}

func (s *secretBytes) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destroyed {
		return 0
	}
	return len(s.key)
}

// Weak reports whether the key is shorter than RecommendedSecretLen.
func (s *secretBytes) Weak() bool {
	return s.Len() < RecommendedSecretLen
}

func (s *secretBytes) String() string   { return redacted }
func (s *secretBytes) GoString() string { return redacted }

func (s *secretBytes) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

func (s *secretBytes) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

func (s *secretBytes) MarshalJSON() ([]byte, error) { return nil, errSecretSerialize }

func (s *secretBytes) MarshalText() ([]byte, error) { return nil, errSecretSerialize }

// PublisherSecret signs publisher tokens.
type PublisherSecret struct {
	*secretBytes
}

// SubscriberSecret signs subscriber tokens.
type SubscriberSecret struct {
	*secretBytes
}

// NewPublisherSecret copies b into a new secret.
func NewPublisherSecret(b []byte) PublisherSecret {
	return PublisherSecret{newSecretBytes(b)}
}

// NewSubscriberSecret copies b into a new secret.
func NewSubscriberSecret(b []byte) SubscriberSecret {
	return SubscriberSecret{newSecretBytes(b)}
}
