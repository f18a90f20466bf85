package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-management-api/internal/auth"
	"github.com/yukikurage/intern-management-api/internal/blob"
	"github.com/yukikurage/intern-management-api/internal/config"
	"github.com/yukikurage/intern-management-api/internal/database"
	"github.com/yukikurage/intern-management-api/internal/handlers"
	"github.com/yukikurage/intern-management-api/internal/logging"
	"github.com/yukikurage/intern-management-api/internal/repository"
	"github.com/yukikurage/intern-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	gin.SetMode(cfg.GinMode)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn(closeCtx, "failed to close storage", "error", err)
		}
	}()

	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	pictures := services.PictureOptions{
		MaxBytes:   cfg.MaxPictureBytes,
		DefaultKey: cfg.DefaultPicture,
	}

	router := handlers.NewRouter(handlers.Services{
		Auth:     services.NewAuthService(store.Users, tokens),
		Users:    services.NewUserService(store.Users, blobs, pictures, logger),
		Tasks:    services.NewTaskService(store.Tasks, store.Users, store.Projects, logger),
		Projects: services.NewProjectService(store.Projects, store.Tasks),
	}, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver, "blob", cfg.BlobBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// openStore connects the configured storage driver and prepares its schema
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	if cfg.StorageDriver == config.DriverMongo {
		client, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		db := client.Database(cfg.MongoDatabase)
		if err := database.MigrateMongo(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		return repository.NewMongoStore(client, db), nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repository.NewGormStore(db), nil
}

// openBlobStore builds the configured profile picture backend
func openBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.BlobBackend {
	case config.BlobLocal:
		return blob.NewLocalStore(cfg.UploadDir)
	case config.BlobS3:
		return blob.NewS3Store(ctx, blob.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unsupported blob backend %q", cfg.BlobBackend)
	}
}
