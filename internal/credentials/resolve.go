// Package credentials locates the HMAC secret used to sign hub JWTs.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoSecret is returned when no source yields a secret.
var ErrNoSecret = errors.New("no JWT secret configured")

// Source lists where a secret may come from, highest precedence first.
type Source struct {
	Value      string
	File       string
	KeyringKey string
}

// Resolve returns the secret bytes from the first configured source. File
// contents lose one trailing newline so secrets written with echo work.
func Resolve(src Source) ([]byte, error) {
	switch {
	case src.Value != "":
		return []byte(src.Value), nil
	case strings.TrimSpace(src.File) != "":
		content, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("read secret file: %w", err)
		}
		content = trimNewline(content)
		if len(content) == 0 {
			return nil, fmt.Errorf("secret file %s is empty", src.File)
		}
		return content, nil
	case strings.TrimSpace(src.KeyringKey) != "":
		secret, err := GetSecret(src.KeyringKey)
		if err != nil {
			return nil, err
		}
		return []byte(secret), nil
	default:
		return nil, ErrNoSecret
	}
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
		if n := len(b); n > 0 && b[n-1] == '\r' {
			b = b[:n-1]
		}
	}
	return b
}
