package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "mercure-client"

// ErrNotFound indicates that a requested secret was not found in the keyring.
var ErrNotFound = errors.New("secret not found")

// GetSecret retrieves the named secret from the system keyring.
func GetSecret(name string) (string, error) {
	secret, err := keyring.Get(serviceName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read secret %q: %w", name, err)
	}
	return secret, nil
}

// SetSecret stores value byte for byte; surrounding whitespace is part of the
// HMAC key.
func SetSecret(name, value string) error {
	if value == "" {
		return fmt.Errorf("secret %q cannot be empty", name)
	}
	if err := keyring.Set(serviceName, name, value); err != nil {
		return fmt.Errorf("store secret %q: %w", name, err)
	}
	return nil
}

func DeleteSecret(name string) error {
	if err := keyring.Delete(serviceName, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete secret %q: %w", name, err)
	}
	return nil
}
