// Package credentials keeps backend access tokens in the OS keyring,
// one entry per API base URL.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "storeadmin"

// ErrNotFound indicates that no token is stored for the backend
var ErrNotFound = errors.New("token not found")

func account(baseURL string) string {
	return "token:" + strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Token returns the access token stored for baseURL
func Token(baseURL string) (string, error) {
	token, err := keyring.Get(serviceName, account(baseURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read token for %s: %w", baseURL, err)
	}
	return token, nil
}

func SetToken(baseURL, token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return fmt.Errorf("token for %s cannot be empty", baseURL)
	}
	if err := keyring.Set(serviceName, account(baseURL), trimmed); err != nil {
		return fmt.Errorf("failed to store token for %s: %w", baseURL, err)
	}
	return nil
}

func DeleteToken(baseURL string) error {
	if err := keyring.Delete(serviceName, account(baseURL)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete token for %s: %w", baseURL, err)
	}
	return nil
}

// LookupToken is Token without the not-found error. Keyring failures
// still surface.
func LookupToken(baseURL string) (string, error) {
	token, err := Token(baseURL)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}
