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

	"eisenhower-board/internal/auth"
	"eisenhower-board/internal/config"
	"eisenhower-board/internal/database"
	"eisenhower-board/internal/gemini"
	"eisenhower-board/internal/handlers"
	"eisenhower-board/internal/logging"
	"eisenhower-board/internal/realtime"
	"eisenhower-board/internal/repository"
	"eisenhower-board/internal/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func openRepository(cfg *config.Config) (repository.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverJSON:
		return repository.NewJSONStore(cfg.DataDir)
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(cfg.StoreDriver, cfg.DatabaseDSN, logger.Warn)
		if err != nil {
			return nil, err
		}
		return repository.NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func run(cfg *config.Config, log *zap.Logger) error {
	repo, err := openRepository(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	uploads, err := handlers.NewUploadStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Repo:    repo,
		Hub:     realtime.NewHub(log),
		Uploads: uploads,
		Images: gemini.New(gemini.Settings{
			APIKey:   cfg.Gemini.APIKey,
			Endpoint: cfg.Gemini.Endpoint,
			Model:    cfg.Gemini.Model,
			Timeout:  cfg.Gemini.Timeout,
		}, log.Named("gemini")),
		Log:       log,
		StaticDir: cfg.StaticDir,
	}
	if cfg.AuthEnabled {
		if cfg.BoardPasswordHash == "" {
			log.Warn("AUTH_ENABLED is set but BOARD_PASSWORD_HASH is empty; login will always fail")
		}
		deps.Signer = auth.NewSigner(cfg.JWTSecret, 24*time.Hour)
		deps.PasswordHash = cfg.BoardPasswordHash
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: routes.SetupRoutes(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("store", cfg.StoreDriver),
			zap.Bool("auth", cfg.AuthEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
