package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileTokenStore keeps the credential in a 0600 file. It is the default
// backend on platforms without an OS keychain, and what tests construct
// directly.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a file-backed token store at the given path
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		return nil, fmt.Errorf("token path is required")
	}
	return &FileTokenStore{path: path}, nil
}

// StoreToken writes the credential to the token file
func (f *FileTokenStore) StoreToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadToken reads the credential from the token file
func (f *FileTokenStore) LoadToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DeleteToken removes the token file
func (f *FileTokenStore) DeleteToken() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
