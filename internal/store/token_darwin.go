//go:build darwin

package store

import (
	"fmt"
	"os/exec"
	"strings"
)

// KeychainTokenStore uses the macOS Keychain for credential storage
type KeychainTokenStore struct {
	serviceName string
	accountName string
}

// NewKeychainTokenStore creates a macOS Keychain token store
func NewKeychainTokenStore() *KeychainTokenStore {
	return &KeychainTokenStore{
		serviceName: "DevicePay",
		accountName: "session-token",
	}
}

// StoreToken stores the credential in the Keychain
func (k *KeychainTokenStore) StoreToken(token string) error {
	// Delete existing entry if it exists
	k.DeleteToken()

	cmd := exec.Command("security", "add-generic-password",
		"-s", k.serviceName,
		"-a", k.accountName,
		"-w", token,
		"-U", // Update if exists
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to store token in keychain: %w", err)
	}
	return nil
}

// LoadToken retrieves the credential from the Keychain
func (k *KeychainTokenStore) LoadToken() (string, error) {
	cmd := exec.Command("security", "find-generic-password",
		"-s", k.serviceName,
		"-a", k.accountName,
		"-w", // Output password only
	)
	output, err := cmd.Output()
	if err != nil {
		// The security tool exits non-zero when the item does not exist;
		// report that as absence rather than failure
		if _, ok := err.(*exec.ExitError); ok {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token from keychain: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// DeleteToken removes the credential from the Keychain
func (k *KeychainTokenStore) DeleteToken() error {
	cmd := exec.Command("security", "delete-generic-password",
		"-s", k.serviceName,
		"-a", k.accountName,
	)
	// Ignore error if item doesn't exist
	cmd.Run()
	return nil
}

// newPlatformTokenStore creates a Keychain token store; the configured path
// is unused on macOS
func newPlatformTokenStore(path string) (TokenStore, error) {
	return NewKeychainTokenStore(), nil
}
