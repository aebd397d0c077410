package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name API keys are stored under
const KeyringService = "zanata-sync"

// ErrNoCredentials is returned when the keyring holds no key for an account
var ErrNoCredentials = errors.New("no stored API key")

// keyringAccount identifies one user on one server
func keyringAccount(url, username string) string {
	return username + "@" + strings.TrimRight(url, "/")
}

// StoreAPIKey saves the API key for username on url in the OS keyring
func StoreAPIKey(url, username, apiKey string) error {
	if url == "" || username == "" {
		return fmt.Errorf("url and username are required to store an API key")
	}
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if err := keyring.Set(KeyringService, keyringAccount(url, username), apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// LookupAPIKey reads the API key for username on url from the OS keyring
func LookupAPIKey(url, username string) (string, error) {
	key, err := keyring.Get(KeyringService, keyringAccount(url, username))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return key, nil
}

// DeleteAPIKey removes a stored API key. Removing a missing key is not an error.
func DeleteAPIKey(url, username string) error {
	err := keyring.Delete(KeyringService, keyringAccount(url, username))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	return nil
}
