// Package app wires configuration, storage, the API client and the
// session into one client application.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"edupath/internal/auth"
	"edupath/internal/certs"
	"edupath/internal/client"
	"edupath/internal/config"
	"edupath/internal/core"
	"edupath/internal/dashboard"
	"edupath/internal/files"
	"edupath/internal/i18n"
	"edupath/internal/models"
	"edupath/internal/recommend"
	"edupath/internal/utils"
)

// App is one running client: a single application context shared by the
// session, the dashboard and the recommendation form.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry

	client    *client.Client
	session   *auth.Session
	forms     *auth.FormController
	dashboard *dashboard.View
	workflow  *recommend.Workflow

	closers []func() error
}

// Option customizes New.
type Option func(*options)

type options struct {
	backend  files.TokenBackend
	registry *prometheus.Registry
}

// WithBackend replaces the configured session storage.
func WithBackend(b files.TokenBackend) Option { return func(o *options) { o.backend = b } }

// WithRegistry registers client metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option { return func(o *options) { o.registry = reg } }

func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	a := &App{cfg: cfg, logger: logger, registry: o.registry}

	copts := []client.Option{
		client.WithLogger(logger.Named("client")),
		client.WithMetrics(client.NewMetrics(o.registry)),
		client.WithTimeout(cfg.HTTPTimeout),
	}
	if cfg.CADir != "" {
		pool, skipped, err := certs.NewCertManager(cfg.CADir).Pool()
		if err != nil {
			return nil, fmt.Errorf("load certificates from %s: %w", cfg.CADir, err)
		}
		if skipped > 0 {
			logger.Warn("skipped expired certificates", zap.String("dir", cfg.CADir), zap.Int("count", skipped))
		}
		copts = append(copts, client.WithRootCAs(pool))
	}
	a.client = client.New(cfg.APIURL, copts...)

	backend := o.backend
	if backend == nil {
		var err error
		if backend, err = a.openBackend(); err != nil {
			return nil, err
		}
	}

	ctx := core.New(i18n.Default())
	if cfg.Language != "" {
		lang, err := i18n.Parse(cfg.Language)
		if err != nil {
			logger.Warn("ignoring configured language", zap.String("lang", cfg.Language), zap.Error(err))
		} else {
			_ = ctx.SetLanguage(lang)
		}
	}

	store := auth.NewStore(backend, a.client, logger.Named("store"))
	gateway := auth.NewGateway(a.client, logger.Named("auth"))
	a.session = auth.NewSession(store, gateway, ctx, logger.Named("session"))
	a.forms = auth.NewFormController(gateway, a.session)
	a.client.OnUnauthorized(a.session.Unauthorized)

	a.dashboard = dashboard.NewView(ctx, a.client, logger.Named("dashboard"), dashboard.LoaderOptions{})
	a.workflow = recommend.NewWorkflow(a.client, ctx, logger.Named("recommend"))
	return a, nil
}

func (a *App) openBackend() (files.TokenBackend, error) {
	switch a.cfg.SessionBackend {
	case config.BackendFile, "":
		s := files.NewFileTokenStore(a.cfg.SessionDir, files.LocalSecret(a.cfg.MasterKeyHex, a.cfg.SessionDir))
		a.logger.Debug("session storage", zap.String("backend", "file"), zap.String("path", s.Path()))
		return s, nil
	case config.BackendRedis:
		rc := files.NewRedisClient(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		a.closers = append(a.closers, rc.Close)
		s := files.NewRedisTokenStore(rc, a.cfg.RedisPrefix, utils.DeviceKey(), a.cfg.SessionTTL)
		a.logger.Debug("session storage", zap.String("backend", "redis"), zap.String("key", s.Key()))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", a.cfg.SessionBackend)
	}
}

func (a *App) Context() *core.AppContext      { return a.session.App() }
func (a *App) Client() *client.Client         { return a.client }
func (a *App) Session() *auth.Session         { return a.session }
func (a *App) Forms() *auth.FormController    { return a.forms }
func (a *App) Dashboard() *dashboard.View     { return a.dashboard }
func (a *App) Workflow() *recommend.Workflow  { return a.workflow }
func (a *App) Registry() *prometheus.Registry { return a.registry }
func (a *App) Logger() *zap.Logger            { return a.logger }

// Start restores a stored session. Having nothing stored is not an error;
// an expired or rejected credential is reported through ErrUnauthorized.
func (a *App) Start(ctx context.Context) (models.UserIdentity, bool, error) {
	user, err := a.session.Restore(ctx)
	switch {
	case errors.Is(err, utils.ErrNotSignedIn):
		return models.UserIdentity{}, false, nil
	case err != nil:
		return models.UserIdentity{}, false, err
	}
	a.logger.Info("session restored", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, true, nil
}

func (a *App) Logout(ctx context.Context) {
	a.forms.Logout(ctx)
}

// Profile loads the academic profile. The remote answers 403 for roles other
// than student, which surfaces as ErrForbidden.
func (a *App) Profile(ctx context.Context) (*models.StudentProfile, error) {
	if !a.Context().SignedIn() {
		return nil, utils.ErrNotSignedIn
	}
	return a.client.StudentProfile(ctx)
}

// SaveProfile updates the student profile from comma separated form input.
func (a *App) SaveProfile(ctx context.Context, f recommend.Form) error {
	user, ok := a.Context().User()
	if !ok {
		return utils.ErrNotSignedIn
	}
	if user.Role != models.RoleStudent {
		return utils.ErrForbidden
	}
	req := f.Normalize()
	level := req.AcademicLevel
	if level == "" {
		level = "Not specified"
	}
	err := a.client.UpdateStudentProfile(ctx, models.StudentProfile{
		UserID:        user.ID,
		AcademicLevel: level,
		Subjects:      nonNil(req.Subjects),
		Interests:     nonNil(req.Interests),
		CareerGoals:   nonNil(req.CareerGoals),
		Strengths:     nonNil(req.Strengths),
	})
	if err != nil {
		return err
	}
	a.reload(ctx, dashboard.SectionProfile)
	return nil
}

// Recommend submits the form and, on success, refreshes the history shown
// on the recommendations tab.
func (a *App) Recommend(ctx context.Context, f recommend.Form) (recommend.Snapshot, error) {
	snap, err := a.workflow.Submit(ctx, f)
	if err != nil {
		return snap, err
	}
	a.reload(ctx, dashboard.SectionHistory)
	return snap, nil
}

// reload refetches one tab section and waits for it.
func (a *App) reload(ctx context.Context, sec dashboard.Section) {
	tabs := a.dashboard.TabData()
	if tabs == nil {
		return
	}
	done, err := tabs.Reload(ctx, sec)
	if err != nil {
		a.logger.Debug("tab reload skipped", zap.String("section", string(sec)), zap.Error(err))
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Close releases storage connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
