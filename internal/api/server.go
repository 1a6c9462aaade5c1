// Package api is a development stand-in for the EduPath API. It serves the
// same routes and error bodies with in-memory state and the built-in
// fallback advisor.
package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	// BcryptCost defaults to bcrypt.DefaultCost; tests use bcrypt.MinCost.
	BcryptCost int
}

type Server struct {
	cfg      Config
	store    *memStore
	tokens   tokenIssuer
	advisor  Advisor
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *serverMetrics
	now      func() time.Time
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.logger = l } }

func WithAdvisor(a Advisor) Option { return func(s *Server) { s.advisor = a } }

// WithClock replaces time.Now for token issuance and record timestamps.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func NewServer(cfg Config, opts ...Option) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * time.Minute
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	s := &Server{
		cfg:      cfg,
		store:    newMemStore(),
		advisor:  FallbackAdvisor{},
		logger:   zap.NewNop(),
		registry: prometheus.NewRegistry(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = tokenIssuer{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: s.now}
	s.metrics = newServerMetrics(s.registry)
	return s
}

// Registry exposes the server collectors, served on /metrics.
func (s *Server) Registry() *prometheus.Registry { return s.registry }
