package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"edupath/internal/core"
	"edupath/internal/models"
	"edupath/internal/utils"
)

// Session ties the store to the application context. Establish and TearDown
// are the only ways a credential becomes attached or detached.
type Session struct {
	mu      sync.Mutex
	store   *Store
	gateway *Gateway
	app     *core.AppContext
	logger  *zap.Logger
	now     func() time.Time
}

func NewSession(store *Store, gateway *Gateway, app *core.AppContext, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, gateway: gateway, app: app, logger: logger, now: time.Now}
}

// App returns the context this session populates.
func (s *Session) App() *core.AppContext { return s.app }

// Gateway returns the gateway used for verification.
func (s *Session) Gateway() *Gateway { return s.gateway }

// Restore runs at startup. It returns ErrNotSignedIn when nothing is stored,
// ErrUnauthorized when the stored credential is expired or rejected (it is
// then cleared), and a network error when verification could not run. In
// the last case the credential stays stored but is not attached.
func (s *Session) Restore(ctx context.Context) (models.UserIdentity, error) {
	cred, ok := s.store.Load(ctx)
	if !ok {
		return models.UserIdentity{}, utils.ErrNotSignedIn
	}
	if Expired(cred, s.now()) {
		s.logger.Info("stored session expired, clearing")
		s.TearDown(ctx)
		return models.UserIdentity{}, utils.ErrUnauthorized
	}

	user, err := s.gateway.Verify(ctx, cred)
	switch {
	case errors.Is(err, utils.ErrUnauthorized):
		s.logger.Info("stored session rejected, clearing")
		s.TearDown(ctx)
		return models.UserIdentity{}, err
	case err != nil:
		s.logger.Warn("could not verify stored session", zap.Error(err))
		return models.UserIdentity{}, err
	}
	s.Establish(ctx, cred, user)
	return user, nil
}

// Establish persists and attaches cred and signs user in, as one operation.
func (s *Session) Establish(ctx context.Context, cred models.Credential, user models.UserIdentity) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Persist(ctx, cred)
	epoch := s.app.SignIn(user)
	s.logger.Info("session established",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return epoch
}

// TearDown clears and detaches the credential and signs out, as one
// operation. The display language is kept.
func (s *Session) TearDown(ctx context.Context) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear(ctx)
	return s.app.SignOut()
}

// Unauthorized handles a 401 for cred seen on any request. A credential
// that was already replaced is ignored.
func (s *Session) Unauthorized(cred models.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.ClearIf(context.Background(), cred) {
		return
	}
	s.logger.Info("session rejected by server, signed out")
	s.app.SignOut()
}
