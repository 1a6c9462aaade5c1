package files

import (
	"context"
	"errors"
	"time"
)

// ErrNoToken is returned by a TokenBackend that holds no credential.
var ErrNoToken = errors.New("no stored token")

// TokenBackend is durable storage for the single session credential of this
// device. Implementations must be safe for concurrent use.
type TokenBackend interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// tokenRecord is the serialized form written by backends that store JSON.
type tokenRecord struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}
