package store

import (
	"encoding/json"
	"fmt"

	"devicepay-cli/internal/session"
)

// KeyUser is the general-storage key holding the cached user profile
const KeyUser = "user"

// TokenStore handles durable storage of the opaque session credential
type TokenStore interface {
	StoreToken(token string) error
	// LoadToken returns the stored credential, or the empty string when no
	// credential is stored. Absence is not an error; only storage-layer
	// failure is.
	LoadToken() (string, error)
	// DeleteToken removes the stored credential. Deleting when nothing is
	// stored is a no-op.
	DeleteToken() error
}

// Store persists the session pair: the credential in the platform secure
// store and the user profile in general storage. Save is write-ahead with
// rollback: if the profile write fails, the already-written credential is
// deleted so the pair is never half-present.
type Store struct {
	tokens TokenStore
	cache  *Cache
}

// New creates a session store over the given backends
func New(tokens TokenStore, cache *Cache) (*Store, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	return &Store{tokens: tokens, cache: cache}, nil
}

// Save writes the credential and profile. From the caller's perspective the
// pair either fully persists or is absent.
func (s *Store) Save(token string, profile session.Profile) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if err := s.tokens.StoreToken(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	data, err := json.Marshal(profile)
	if err != nil {
		// Unreachable for Profile, but keep the rollback path total
		s.tokens.DeleteToken()
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := s.cache.Put(KeyUser, data); err != nil {
		if delErr := s.tokens.DeleteToken(); delErr != nil {
			return fmt.Errorf("failed to store profile: %v (token rollback also failed: %w)", err, delErr)
		}
		return fmt.Errorf("failed to store profile: %w", err)
	}

	return nil
}

// Load returns the stored credential and profile. A pair with either half
// missing is reported as wholly absent ("" and nil) with no error.
func (s *Store) Load() (string, *session.Profile, error) {
	token, err := s.tokens.LoadToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load token: %w", err)
	}

	data, err := s.cache.Get(KeyUser)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if token == "" || data == nil {
		return "", nil, nil
	}

	var profile session.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return token, &profile, nil
}

// Clear removes both halves of the session pair. Clearing an empty store is
// a no-op.
func (s *Store) Clear() error {
	if err := s.tokens.DeleteToken(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if err := s.cache.Delete(KeyUser); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
