package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/serp-db/serp-backend/config"
	"github.com/serp-db/serp-backend/internal/auth"
	"github.com/serp-db/serp-backend/internal/bootstrap"
	"github.com/serp-db/serp-backend/internal/logging"
)

const serviceName = "serp-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Init(cfg.App.LogLevel, os.Stdout)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger(ctx)

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	deps := bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Catalog:     app.Catalog,
		Runs:        app.RunReports(),
		Checks:      bootstrap.Checks(app.Store, app.Redis),
	}
	if cfg.Auth.FirebaseAuthEnabled {
		authClient, err := auth.InitializeAuth(ctx, app.Firebase)
		if err != nil {
			log.Fatalf("firebase auth: %v", err)
		}
		deps.Verifier = authClient
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.LogInfof("server.start", "listening on :%s (store=%s)", cfg.Server.Port, cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.LogInfo("server.stop", "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogErrorf("server.stop", "shutdown: %v", err)
	}
}
