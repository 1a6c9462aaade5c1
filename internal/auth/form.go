package auth

import (
	"context"
	"errors"
	"strings"

	"edupath/internal/models"
	"edupath/internal/utils"
)

type LoginForm struct {
	Email    string
	Password string
}

type RegisterForm struct {
	Email             string
	Password          string
	FullName          string
	Role              string
	Phone             string
	PreferredLanguage string
}

// FormController submits the auth forms and establishes the session on
// success.
type FormController struct {
	gateway *Gateway
	session *Session
}

func NewFormController(gateway *Gateway, session *Session) *FormController {
	return &FormController{gateway: gateway, session: session}
}

func (f *FormController) SubmitLogin(ctx context.Context, form LoginForm) (models.UserIdentity, error) {
	cred, user, err := f.gateway.Login(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) && f.session.App().SignedIn() {
			f.session.TearDown(ctx)
		}
		return models.UserIdentity{}, err
	}
	f.session.Establish(ctx, cred, user)
	return user, nil
}

// SubmitRegister defaults the preferred language to the one on screen.
func (f *FormController) SubmitRegister(ctx context.Context, form RegisterForm) (models.UserIdentity, error) {
	lang := models.Language(strings.ToLower(strings.TrimSpace(form.PreferredLanguage)))
	if lang == "" {
		lang = f.session.App().Language()
	}
	req := models.RegisterRequest{
		Email:             form.Email,
		Password:          form.Password,
		FullName:          form.FullName,
		Role:              models.Role(strings.ToLower(strings.TrimSpace(form.Role))),
		Phone:             strings.TrimSpace(form.Phone),
		PreferredLanguage: lang,
	}
	cred, user, err := f.gateway.Register(ctx, req)
	if err != nil {
		return models.UserIdentity{}, err
	}
	f.session.Establish(ctx, cred, user)
	return user, nil
}

// Logout ends the session locally. There is no remote logout endpoint.
func (f *FormController) Logout(ctx context.Context) {
	f.session.TearDown(ctx)
}
