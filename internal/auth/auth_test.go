package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"edupath/internal/api"
	"edupath/internal/client"
	"edupath/internal/core"
	"edupath/internal/files"
	"edupath/internal/models"
	"edupath/internal/utils"
)

type memBackend struct {
	mu    sync.Mutex
	token string
	err   error
}

func (m *memBackend) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.token == "" {
		return "", files.ErrNoToken
	}
	return m.token, nil
}

func (m *memBackend) Save(_ context.Context, tok string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.token = tok
	return nil
}

func (m *memBackend) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return m.err
}

func (m *memBackend) stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// countingAPI records how many calls reach the network.
type countingAPI struct {
	API
	calls atomic.Int32
}

func (c *countingAPI) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	c.calls.Add(1)
	return c.API.Login(ctx, req)
}

func (c *countingAPI) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	c.calls.Add(1)
	return c.API.Register(ctx, req)
}

func (c *countingAPI) Me(ctx context.Context, cred models.Credential) (models.UserIdentity, error) {
	c.calls.Add(1)
	return c.API.Me(ctx, cred)
}

type fixture struct {
	client  *client.Client
	api     *countingAPI
	backend *memBackend
	store   *Store
	app     *core.AppContext
	session *Session
	forms   *FormController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := api.NewServer(api.Config{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	f := &fixture{client: client.New(ts.URL), backend: &memBackend{}, app: core.New(nil)}
	f.api = &countingAPI{API: f.client}
	f.store = NewStore(f.backend, f.client, nil)
	gw := NewGateway(f.api, nil)
	f.session = NewSession(f.store, gw, f.app, nil)
	f.forms = NewFormController(gw, f.session)
	f.client.OnUnauthorized(f.session.Unauthorized)
	return f
}

func (f *fixture) register(t *testing.T, email string, role models.Role, lang string) models.UserIdentity {
	t.Helper()
	user, err := f.forms.SubmitRegister(context.Background(), RegisterForm{
		Email: email, Password: "secret1", FullName: "Test User", Role: string(role), PreferredLanguage: lang,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestLoginThenVerifyYieldsSameIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "asha@example.com", models.RoleStudent, "hi")
	f.forms.Logout(ctx)

	cred, user, err := f.session.Gateway().Login(ctx, "asha@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	verified, err := f.session.Gateway().Verify(ctx, cred)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.ID != user.ID || verified.Email != user.Email || verified.Role != user.Role ||
		verified.PreferredLanguage != user.PreferredLanguage || !verified.CreatedAt.Equal(user.CreatedAt.Time) {
		t.Fatalf("verify = %+v, login = %+v", verified, user)
	}
}

func TestSubmitLoginEstablishesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "asha@example.com", models.RoleStudent, "ks")
	f.forms.Logout(ctx)
	_ = f.app.SetLanguage(models.LangEnglish)

	user, err := f.forms.SubmitLogin(ctx, LoginForm{Email: "asha@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	got, ok := f.app.User()
	if !ok || got.ID != user.ID {
		t.Fatalf("context user = %+v", got)
	}
	if f.app.Language() != models.LangKashmiri {
		t.Fatalf("expected preferred language ks, got %s", f.app.Language())
	}
	if f.backend.stored() == "" || f.client.Token() == "" || f.backend.stored() != f.client.Token().Value() {
		t.Fatal("stored and attached credentials disagree")
	}
}

func TestLoginRejectedSurfacesRemoteMessage(t *testing.T) {
	f := newFixture(t)
	_, err := f.forms.SubmitLogin(context.Background(), LoginForm{Email: "nobody@example.com", Password: "secret1"})
	if !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if utils.UserMessage(err) != "Invalid email or password" {
		t.Fatalf("unexpected message %q", utils.UserMessage(err))
	}
	if f.app.SignedIn() {
		t.Fatal("should stay signed out")
	}
}

func TestRegisterShortPasswordFailsBeforeNetwork(t *testing.T) {
	f := newFixture(t)
	for _, pw := range []string{"", "1", "12345"} {
		_, err := f.forms.SubmitRegister(context.Background(), RegisterForm{
			Email: "asha@example.com", Password: pw, FullName: "Asha", Role: "student",
		})
		v, ok := utils.AsValidation(err)
		if !ok {
			t.Fatalf("password %q: expected ValidationError, got %v", pw, err)
		}
		if _, ok := v.Field("password"); !ok {
			t.Fatalf("password %q: no password field in %v", pw, v)
		}
	}
	if n := f.api.calls.Load(); n != 0 {
		t.Fatalf("expected no network calls, got %d", n)
	}
}

func TestRegisterDuplicateIsFieldError(t *testing.T) {
	f := newFixture(t)
	f.register(t, "asha@example.com", models.RoleStudent, "")
	f.forms.Logout(context.Background())

	_, err := f.forms.SubmitRegister(context.Background(), RegisterForm{
		Email: "asha@example.com", Password: "secret1", FullName: "Asha", Role: "parent",
	})
	v, ok := utils.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msg, _ := v.Field("email"); msg != "Email already registered" {
		t.Fatalf("unexpected field errors %+v", v.Fields)
	}
}

func TestLogoutKeepsLanguage(t *testing.T) {
	f := newFixture(t)
	f.register(t, "asha@example.com", models.RoleStudent, "en")
	_ = f.app.SetLanguage(models.LangHindi)

	f.forms.Logout(context.Background())
	if f.app.SignedIn() {
		t.Fatal("identity not cleared")
	}
	if f.client.Token() != "" || f.backend.stored() != "" {
		t.Fatal("credential not cleared")
	}
	if f.app.Language() != models.LangHindi {
		t.Fatalf("language changed to %s", f.app.Language())
	}
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "asha@example.com", models.RoleCounselor, "hi")
	stored := f.backend.stored()

	// a fresh process: same storage, new context and client bearer
	f.client.SetToken("")
	f.app.SignOut()
	before := f.api.calls.Load()

	got, err := f.session.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got.ID != user.ID || f.client.Token().Value() != stored || f.app.Role() != models.RoleCounselor {
		t.Fatalf("restore did not establish the session")
	}
	if f.api.calls.Load() != before+1 {
		t.Fatal("expected exactly one verification call")
	}
}

func TestRestoreWithNothingStored(t *testing.T) {
	f := newFixture(t)
	if _, err := f.session.Restore(context.Background()); !errors.Is(err, utils.ErrNotSignedIn) {
		t.Fatalf("got %v", err)
	}
}

func TestRestoreExpiredTokenClearsWithoutNetwork(t *testing.T) {
	f := newFixture(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte("whatever"))
	if err != nil {
		t.Fatal(err)
	}
	f.backend.token = tok

	if _, err := f.session.Restore(context.Background()); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("got %v", err)
	}
	if f.api.calls.Load() != 0 {
		t.Fatal("expired token should not be verified remotely")
	}
	if f.backend.stored() != "" {
		t.Fatal("expired token not cleared")
	}
}

func TestRestoreRejectedTokenClears(t *testing.T) {
	f := newFixture(t)
	f.backend.token = "opaque-but-wrong"
	if _, err := f.session.Restore(context.Background()); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("got %v", err)
	}
	if f.backend.stored() != "" || f.app.SignedIn() {
		t.Fatal("rejected token not cleared")
	}
}

func TestRestoreNetworkErrorKeepsToken(t *testing.T) {
	backend := &memBackend{token: "tok-1"}
	c := client.New("http://127.0.0.1:1", client.WithTimeout(time.Second))
	app := core.New(nil)
	store := NewStore(backend, c, nil)
	s := NewSession(store, NewGateway(c, nil), app, nil)

	_, err := s.Restore(context.Background())
	if !errors.Is(err, utils.ErrNetworkOrServer) {
		t.Fatalf("expected network error, got %v", err)
	}
	if backend.stored() != "tok-1" {
		t.Fatal("token should stay stored")
	}
	if c.Token() != "" || app.SignedIn() {
		t.Fatal("unverified token must not be attached")
	}
}

func TestStorageFailureDegradesToSignedOut(t *testing.T) {
	backend := &memBackend{err: errors.New("disk on fire")}
	c := client.New("http://127.0.0.1:1")
	store := NewStore(backend, c, nil)
	s := NewSession(store, NewGateway(c, nil), core.New(nil), nil)

	if _, err := s.Restore(context.Background()); !errors.Is(err, utils.ErrNotSignedIn) {
		t.Fatalf("got %v", err)
	}
	s.Establish(context.Background(), "tok-1", models.UserIdentity{ID: "u1", Role: models.RoleAdmin})
	if c.Token() != "tok-1" {
		t.Fatal("credential should be attached even when persisting fails")
	}
}

func TestUnauthorizedResponseTearsDownCurrentSessionOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "asha@example.com", models.RoleStudent, "")

	f.session.Unauthorized("some-older-token")
	if !f.app.SignedIn() {
		t.Fatal("stale 401 must be ignored")
	}

	f.client.SetToken("tampered")
	_, err := f.client.DashboardStats(ctx)
	if !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if f.app.SignedIn() || f.client.Token() != "" || f.backend.stored() != "" {
		t.Fatal("401 for the attached credential should tear the session down")
	}
}

func TestExpiresAt(t *testing.T) {
	if _, ok := ExpiresAt("opaque"); ok {
		t.Fatal("opaque token has no expiry")
	}
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}).SignedString([]byte("k"))
	got, ok := ExpiresAt(models.Credential(tok))
	if !ok || !got.Equal(exp) {
		t.Fatalf("got %v %v", got, ok)
	}
	if Expired(models.Credential(tok), time.Now()) {
		t.Fatal("not yet expired")
	}
}
