// Command guiclient serves the EduPath client as local web pages.
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

	"edupath/internal/app"
	"edupath/internal/config"
	"edupath/internal/gui"
	"edupath/internal/utils"
)

func main() {
	cfg := config.Load()
	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if user, ok, err := a.Start(ctx); err != nil {
		logger.Warn("stored session not restored", zap.Error(err))
	} else if ok {
		logger.Info("signed in", zap.String("email", user.Email))
	}

	srv, err := gui.NewServer(a, cfg.HTTPTimeout)
	if err != nil {
		logger.Fatal("gui setup failed", zap.Error(err))
	}
	httpServer := &http.Server{
		Addr:              cfg.GUIAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		fmt.Printf("EduPath running at http://%s\n", cfg.GUIAddr)
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
