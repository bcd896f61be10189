//go:build windows

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// DPAPITokenStore stores the credential in a file encrypted with the
// Windows Data Protection API, bound to the current user account.
type DPAPITokenStore struct {
	path string
}

// NewDPAPITokenStore creates a DPAPI-backed token store at the given path
func NewDPAPITokenStore(path string) (*DPAPITokenStore, error) {
	if path == "" {
		return nil, fmt.Errorf("token path is required")
	}
	return &DPAPITokenStore{path: path}, nil
}

var (
	crypt32                = windows.NewLazySystemDLL("crypt32.dll")
	procCryptProtectData   = crypt32.NewProc("CryptProtectData")
	procCryptUnprotectData = crypt32.NewProc("CryptUnprotectData")
)

type dataBlob struct {
	cbData uint32
	pbData *byte
}

// StoreToken encrypts the credential with DPAPI and writes it to disk
func (d *DPAPITokenStore) StoreToken(token string) error {
	encrypted, err := protectData([]byte(token))
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(d.path, encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadToken reads and decrypts the stored credential
func (d *DPAPITokenStore) LoadToken() (string, error) {
	encrypted, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	data, err := unprotectData(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	return string(data), nil
}

// DeleteToken removes the encrypted token file
func (d *DPAPITokenStore) DeleteToken() error {
	err := os.Remove(d.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

func protectData(data []byte) ([]byte, error) {
	var inBlob dataBlob
	inBlob.pbData = &data[0]
	inBlob.cbData = uint32(len(data))

	var outBlob dataBlob
	ret, _, err := procCryptProtectData.Call(
		uintptr(unsafe.Pointer(&inBlob)),
		0, // description
		0, // optional entropy
		0, // reserved
		0, // prompt struct
		0, // flags
		uintptr(unsafe.Pointer(&outBlob)),
	)
	if ret == 0 {
		return nil, fmt.Errorf("CryptProtectData failed: %v", err)
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(outBlob.pbData)))

	out := make([]byte, outBlob.cbData)
	copy(out, unsafe.Slice(outBlob.pbData, outBlob.cbData))
	return out, nil
}

func unprotectData(data []byte) ([]byte, error) {
	var inBlob dataBlob
	inBlob.pbData = &data[0]
	inBlob.cbData = uint32(len(data))

	var outBlob dataBlob
	ret, _, err := procCryptUnprotectData.Call(
		uintptr(unsafe.Pointer(&inBlob)),
		0, // description
		0, // optional entropy
		0, // reserved
		0, // prompt struct
		0, // flags
		uintptr(unsafe.Pointer(&outBlob)),
	)
	if ret == 0 {
		return nil, fmt.Errorf("CryptUnprotectData failed: %v", err)
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(outBlob.pbData)))

	out := make([]byte, outBlob.cbData)
	copy(out, unsafe.Slice(outBlob.pbData, outBlob.cbData))
	return out, nil
}

// newPlatformTokenStore creates a DPAPI token store at the configured path
func newPlatformTokenStore(path string) (TokenStore, error) {
	return NewDPAPITokenStore(path)
}
