package files

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"edupath/internal/crypto"
	"edupath/internal/utils"
)

const (
	sessionFileName = "session.json.enc"
	saltSize        = 16
)

var sessionAAD = []byte("edupath-session")

// SecretFunc yields the secret the vault key is derived from.
type SecretFunc func() ([]byte, error)

// LocalSecret prefers the configured master key (env hex or dir/master.key)
// and falls back to the device fingerprint.
func LocalSecret(masterKeyHex, dir string) SecretFunc {
	return func() ([]byte, error) {
		if key, err := crypto.ReadMasterKey(masterKeyHex, dir); err == nil {
			return key, nil
		} else if masterKeyHex != "" {
			return nil, err
		}
		fp, err := utils.DeviceFingerprint()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", crypto.ErrNoKeySource, err)
		}
		return []byte(fp), nil
	}
}

// FileTokenStore keeps the credential in an AES-GCM sealed file. The file
// layout is salt || nonce || ciphertext.
type FileTokenStore struct {
	path   string
	secret SecretFunc
	mu     sync.Mutex
}

// NewFileTokenStore stores the credential as dir/session.json.enc.
func NewFileTokenStore(dir string, secret SecretFunc) *FileTokenStore {
	return &FileTokenStore{path: filepath.Join(dir, sessionFileName), secret: secret}
}

// Path returns the sealed file location.
func (s *FileTokenStore) Path() string { return s.path }

func (s *FileTokenStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	if len(blob) <= saltSize {
		return "", crypto.ErrCiphertextTooShort
	}
	key, err := s.key(blob[:saltSize])
	if err != nil {
		return "", err
	}
	plain, err := crypto.Open(key, blob[saltSize:], sessionAAD)
	if err != nil {
		return "", fmt.Errorf("open session file: %w", err)
	}
	var rec tokenRecord
	if err := json.Unmarshal(plain, &rec); err != nil {
		return "", fmt.Errorf("decode session file: %w", err)
	}
	if rec.AccessToken == "" {
		return "", ErrNoToken
	}
	return rec.AccessToken, nil
}

func (s *FileTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	salt, err := crypto.RandomBytes(saltSize)
	if err != nil {
		return err
	}
	key, err := s.key(salt)
	if err != nil {
		return err
	}
	plain, err := json.Marshal(tokenRecord{AccessToken: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	sealed, err := crypto.Seal(key, plain, sessionAAD)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(salt, sealed...), 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileTokenStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileTokenStore) key(salt []byte) ([]byte, error) {
	secret, err := s.secret()
	if err != nil {
		return nil, err
	}
	return crypto.DeriveVaultKey(secret, salt)
}
