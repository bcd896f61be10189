package store

// NewPlatformTokenStore creates the secure credential backend for the
// current platform: macOS Keychain, Windows DPAPI, or a 0600 file elsewhere.
// The path is used by the file-based backends.
func NewPlatformTokenStore(path string) (TokenStore, error) {
	return newPlatformTokenStore(path)
}
