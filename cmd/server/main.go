// Command server runs the development stand-in for the EduPath API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"edupath/internal/api"
	"edupath/internal/config"
	"edupath/internal/utils"
)

func main() {
	cfg := config.Load()
	logger, err := utils.NewLogger(cfg.LogLevel, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.StubJWTSecret == "dev-secret-change-me" {
		logger.Warn("using the default signing secret; set STUB_JWT_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(api.Config{
		JWTSecret:   cfg.StubJWTSecret,
		TokenTTL:    cfg.StubTokenTTL,
		CORSOrigins: cfg.StubCORSOrigins,
	}, api.WithLogger(logger.Named("api")))

	httpServer := &http.Server{
		Addr:              cfg.StubAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening", zap.String("addr", cfg.StubAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
