package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router mounts the API under /api and /metrics at the root.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.metrics.instrument, s.logRequests)

	api.HandleFunc("/", s.handleRoot).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/auth/me", s.authenticated(s.handleMe)).Methods("GET")
	api.HandleFunc("/career/recommendations", s.authenticated(s.handleRecommend)).Methods("POST")
	api.HandleFunc("/career/recommendations/history", s.authenticated(s.handleHistory)).Methods("GET")
	api.HandleFunc("/profile/student", s.authenticated(s.handleGetProfile)).Methods("GET")
	api.HandleFunc("/profile/student", s.authenticated(s.handlePutProfile)).Methods("PUT")
	api.HandleFunc("/dashboard/stats", s.authenticated(s.handleStats)).Methods("GET")
	api.HandleFunc("/scholarships", s.authenticated(s.handleScholarships)).Methods("GET")
	api.HandleFunc("/opportunities/nearby", s.authenticated(s.handleNearby)).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Duration("elapsed", time.Since(start)))
	})
}
