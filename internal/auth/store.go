// Package auth owns the session credential: where it is stored, how it is
// obtained and verified, and how it is attached to outbound requests.
package auth

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"edupath/internal/files"
	"edupath/internal/models"
)

// Bearer is the outbound-request default the store keeps in step with the
// backend.
type Bearer interface {
	SetToken(models.Credential)
	Token() models.Credential
}

// Store is the only component that reads or writes the persisted credential.
type Store struct {
	mu      sync.Mutex
	backend files.TokenBackend
	bearer  Bearer
	logger  *zap.Logger
}

func NewStore(backend files.TokenBackend, bearer Bearer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, bearer: bearer, logger: logger}
}

// Load returns the persisted credential. Storage failures read as absent.
func (s *Store) Load(ctx context.Context) (models.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, files.ErrNoToken) {
			s.logger.Warn("session storage unavailable, continuing signed out", zap.Error(err))
		}
		return "", false
	}
	return models.Credential(tok), true
}

// Persist stores cred and attaches it to outbound requests in one step. A
// storage failure is logged; the credential is still attached so the
// current process stays signed in.
func (s *Store) Persist(ctx context.Context, cred models.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(ctx, cred.Value()); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
	}
	s.bearer.SetToken(cred)
}

// Clear removes the stored credential and detaches it in one step.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(ctx)
}

// ClearIf clears only when cred is still the attached credential.
func (s *Store) ClearIf(ctx context.Context, cred models.Credential) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cred == "" || s.bearer.Token() != cred {
		return false
	}
	s.clearLocked(ctx)
	return true
}

// Attached returns the credential currently sent with requests.
func (s *Store) Attached() models.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bearer.Token()
}

func (s *Store) clearLocked(ctx context.Context) {
	if err := s.backend.Delete(ctx); err != nil {
		s.logger.Warn("failed to remove stored session", zap.Error(err))
	}
	s.bearer.SetToken("")
}
