package store

import (
	"path/filepath"
	"testing"

	"devicepay-cli/internal/session"
)

func setupTestStore(t *testing.T) (*Store, *FileTokenStore, *Cache) {
	t.Helper()

	dir := t.TempDir()

	tokens, err := NewFileTokenStore(filepath.Join(dir, "token"))
	if err != nil {
		t.Fatalf("Failed to create token store: %v", err)
	}

	cache, err := NewCache(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	s, err := New(tokens, cache)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	return s, tokens, cache
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _, _ := setupTestStore(t)

	profile := session.Profile{ID: "1", Username: "amy", Role: session.RoleAgent}
	if err := s.Save("tok123", profile); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	token, loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if token != "tok123" {
		t.Errorf("Load() token = %q, want %q", token, "tok123")
	}
	if loaded == nil {
		t.Fatal("Load() profile should not be nil")
	}
	if *loaded != profile {
		t.Errorf("Load() profile = %+v, want %+v", *loaded, profile)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s, _, _ := setupTestStore(t)

	token, profile, err := s.Load()
	if err != nil {
		t.Fatalf("Load() on empty store returned error: %v", err)
	}
	if token != "" || profile != nil {
		t.Errorf("Load() on empty store = (%q, %+v), want absent pair", token, profile)
	}
}

func TestLoadHalfPresentPairIsAbsent(t *testing.T) {
	t.Run("token only", func(t *testing.T) {
		s, tokens, _ := setupTestStore(t)

		if err := tokens.StoreToken("orphan-token"); err != nil {
			t.Fatalf("StoreToken() returned error: %v", err)
		}

		token, profile, err := s.Load()
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if token != "" || profile != nil {
			t.Errorf("Load() with token only = (%q, %+v), want absent pair", token, profile)
		}
	})

	t.Run("profile only", func(t *testing.T) {
		s, _, cache := setupTestStore(t)

		if err := cache.Put(KeyUser, []byte(`{"id":"1","username":"amy","role":"agent"}`)); err != nil {
			t.Fatalf("Put() returned error: %v", err)
		}

		token, profile, err := s.Load()
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		if token != "" || profile != nil {
			t.Errorf("Load() with profile only = (%q, %+v), want absent pair", token, profile)
		}
	})
}

func TestClearIsIdempotent(t *testing.T) {
	s, _, _ := setupTestStore(t)

	if err := s.Save("tok123", session.Profile{ID: "1", Username: "amy", Role: session.RoleAgent}); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("Second Clear() on empty store returned error: %v", err)
	}

	token, profile, err := s.Load()
	if err != nil {
		t.Fatalf("Load() after Clear() returned error: %v", err)
	}
	if token != "" || profile != nil {
		t.Errorf("Load() after Clear() = (%q, %+v), want absent pair", token, profile)
	}
}

func TestSaveRollsBackTokenOnProfileFailure(t *testing.T) {
	s, tokens, cache := setupTestStore(t)

	// Closing the cache forces the profile write to fail
	cache.Close()

	err := s.Save("tok123", session.Profile{ID: "1", Username: "amy", Role: session.RoleAgent})
	if err == nil {
		t.Fatal("Save() should fail when the profile write fails")
	}

	token, loadErr := tokens.LoadToken()
	if loadErr != nil {
		t.Fatalf("LoadToken() returned error: %v", loadErr)
	}
	if token != "" {
		t.Errorf("Token should be rolled back after failed Save, got %q", token)
	}
}

func TestSaveEmptyToken(t *testing.T) {
	s, _, _ := setupTestStore(t)

	if err := s.Save("", session.Profile{ID: "1"}); err == nil {
		t.Error("Save() with empty token should return error")
	}
}

func TestLoadCorruptProfile(t *testing.T) {
	s, tokens, cache := setupTestStore(t)

	if err := tokens.StoreToken("tok123"); err != nil {
		t.Fatalf("StoreToken() returned error: %v", err)
	}
	if err := cache.Put(KeyUser, []byte("{not json")); err != nil {
		t.Fatalf("Put() returned error: %v", err)
	}

	if _, _, err := s.Load(); err == nil {
		t.Error("Load() with corrupt profile should return error")
	}
}
