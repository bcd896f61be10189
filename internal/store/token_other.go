//go:build !windows && !darwin

package store

// newPlatformTokenStore creates a file-backed token store at the configured
// path. Linux and the BSDs get the 0600-file backend.
func newPlatformTokenStore(path string) (TokenStore, error) {
	return NewFileTokenStore(path)
}
