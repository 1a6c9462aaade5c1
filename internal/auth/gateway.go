package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"edupath/internal/models"
	"edupath/internal/utils"
	"edupath/internal/validation"
)

// API is the part of the remote client the gateway needs.
type API interface {
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Me(ctx context.Context, cred models.Credential) (models.UserIdentity, error)
}

// Gateway performs login, registration and verification. It does not touch
// the store; callers establish or tear down the session with the result.
type Gateway struct {
	api    API
	logger *zap.Logger
}

func NewGateway(api API, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{api: api, logger: logger}
}

// Login fails with a *ValidationError before any network call when the input
// is malformed, and with ErrInvalidCredentials carrying the remote message
// when the service rejects it.
func (g *Gateway) Login(ctx context.Context, email, password string) (models.Credential, models.UserIdentity, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := validation.Struct(req); err != nil {
		return "", models.UserIdentity{}, err
	}
	resp, err := g.api.Login(ctx, req)
	if err != nil {
		var remote *utils.RemoteError
		if errors.As(err, &remote) && remote.Status >= 400 && remote.Status < 500 {
			g.logger.Info("login rejected", zap.Int("status", remote.Status))
			return "", models.UserIdentity{}, utils.NewRemoteError(utils.ErrInvalidCredentials, remote.Status, remote.Message)
		}
		return "", models.UserIdentity{}, err
	}
	return models.Credential(resp.AccessToken), resp.User, nil
}

// Register validates locally, then submits. Any rejection by the service is
// reported as a *ValidationError so the form can show it next to a field.
func (g *Gateway) Register(ctx context.Context, req models.RegisterRequest) (models.Credential, models.UserIdentity, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validation.Struct(req); err != nil {
		return "", models.UserIdentity{}, err
	}
	resp, err := g.api.Register(ctx, req)
	if err != nil {
		var remote *utils.RemoteError
		if errors.As(err, &remote) && remote.Status >= 400 && remote.Status < 500 {
			g.logger.Info("registration rejected", zap.Int("status", remote.Status))
			return "", models.UserIdentity{}, remoteValidation(remote)
		}
		return "", models.UserIdentity{}, err
	}
	return models.Credential(resp.AccessToken), resp.User, nil
}

// Verify resolves cred to its owner. A rejected credential yields
// ErrUnauthorized; the caller must clear the store.
func (g *Gateway) Verify(ctx context.Context, cred models.Credential) (models.UserIdentity, error) {
	if cred == "" {
		return models.UserIdentity{}, utils.ErrUnauthorized
	}
	user, err := g.api.Me(ctx, cred)
	if err != nil {
		return models.UserIdentity{}, err
	}
	return user, nil
}

func remoteValidation(remote *utils.RemoteError) *utils.ValidationError {
	if len(remote.Fields) > 0 {
		return &utils.ValidationError{Fields: append([]utils.FieldError(nil), remote.Fields...)}
	}
	field := "form"
	if strings.Contains(strings.ToLower(remote.Message), "email") {
		field = "email"
	}
	rule := "remote"
	if remote.Status == http.StatusBadRequest {
		rule = "rejected"
	}
	return &utils.ValidationError{Fields: []utils.FieldError{{Field: field, Rule: rule, Message: remote.Message}}}
}
