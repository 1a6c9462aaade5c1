package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// MasterKeyFile is the file name cmd/genmasterkey writes inside the session dir.
	MasterKeyFile = "master.key"
	// MasterKeySize is the raw length of a master key in bytes.
	MasterKeySize = 32

	vaultInfo = "edupath-session-vault-v1"
)

// ErrNoKeySource is returned when neither a master key nor a fingerprint is available.
var ErrNoKeySource = errors.New("no key source available")

// DeriveVaultKey derives the 32-byte AES key that seals the persisted
// credential from a secret and the per-file salt.
func DeriveVaultKey(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrNoKeySource
	}
	h := hkdf.New(sha256.New, secret, salt, []byte(vaultInfo))
	out := make([]byte, 32)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseMasterKey decodes a hex master key and checks its length.
func ParseMasterKey(h string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(h))
	if err != nil {
		return nil, fmt.Errorf("master key hex decode error: %w", err)
	}
	if len(b) != MasterKeySize {
		return nil, fmt.Errorf("master key length must be %d bytes (hex %d chars)", MasterKeySize, MasterKeySize*2)
	}
	return b, nil
}

// ReadMasterKey returns the master key from envHex, or from dir/master.key.
func ReadMasterKey(envHex, dir string) ([]byte, error) {
	if envHex != "" {
		return ParseMasterKey(envHex)
	}
	data, err := os.ReadFile(filepath.Join(dir, MasterKeyFile))
	if err != nil {
		return nil, err
	}
	return ParseMasterKey(string(data))
}

// WriteMasterKey creates dir/master.key with a fresh random key. It refuses
// to overwrite an existing key file.
func WriteMasterKey(dir string) (string, error) {
	path := filepath.Join(dir, MasterKeyFile)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	key, err := RandomBytes(MasterKeySize)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0600); err != nil {
		return "", err
	}
	return path, nil
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
