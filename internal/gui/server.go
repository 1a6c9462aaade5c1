// Package gui serves the client as local HTML pages. It holds one
// application context, so it is meant for a single user on localhost.
package gui

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"edupath/internal/app"
	"edupath/internal/views"
)

type Server struct {
	app    *app.App
	views  *views.Renderer
	logger *zap.Logger
	// wait bounds how long a page waits for dashboard sections before
	// rendering them as loading.
	wait time.Duration
}

func NewServer(a *app.App, wait time.Duration) (*Server, error) {
	r, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}
	if wait <= 0 {
		wait = 10 * time.Second
	}
	return &Server{app: a, views: r, logger: a.Logger().Named("gui"), wait: wait}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(loggerMiddleware(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegister)
	r.Post("/lang", s.handleLanguage)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/profile", s.handleProfile)
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.app.Registry(), promhttp.HandlerOpts{}))
	return r
}

func loggerMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.app.Context().SignedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, page views.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.views.Render(w, s.app.Context(), name, page); err != nil {
		s.logger.Error("render failed", zap.String("template", name), zap.Error(err))
	}
}

// background detaches loads from the request so a closed tab does not
// cancel sections other pages will show.
func background(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if s.app.Context().SignedIn() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
