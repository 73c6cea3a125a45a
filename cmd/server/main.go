package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loadestimator/internal/config"
	"loadestimator/internal/identity"
	"loadestimator/internal/logger"
	"loadestimator/internal/refdata"
	"loadestimator/internal/routes"
	"loadestimator/internal/store"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	table, err := refdata.Load(cfg.DataPath)
	if err != nil {
		logr.Fatal("failed to load reference data", zap.Error(err), zap.String("path", cfg.DataPath))
	}
	logr.Info("reference data loaded",
		zap.String("path", cfg.DataPath),
		zap.Int("rows", table.Len()),
		zap.Int("building_types", len(table.BuildingTypes())))

	ctx := context.Background()

	var provider identity.Provider
	switch cfg.IdentityBackend {
	case "local":
		provider = identity.NewLocalProvider(cfg.LocalAuthSecret, cfg.LocalTokenTTL, logr.Logger)
		logr.Warn("using local identity provider; not for production")
	default:
		if cfg.CognitoUserPoolID == "" || cfg.CognitoClientID == "" {
			logr.Fatal("COGNITO_USER_POOL_ID and COGNITO_CLIENT_ID are required for the cognito backend")
		}
		provider, err = identity.NewCognitoProvider(ctx, cfg.AWSRegion, cfg.CognitoClientID)
		if err != nil {
			logr.Fatal("failed to init cognito provider", zap.Error(err))
		}
	}

	var projectStore store.ProjectStore
	switch cfg.StoreBackend {
	case "memory":
		projectStore = store.NewMemoryStore()
		logr.Warn("using in-memory project store; records do not survive restarts")
	default:
		projectStore, err = store.NewDynamoStore(ctx, cfg.AWSRegion, cfg.DynamoTableName)
		if err != nil {
			logr.Fatal("failed to init dynamodb store", zap.Error(err))
		}
	}

	r := routes.NewRouter(table, provider, projectStore, cfg, logr)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server exited gracefully")
}
