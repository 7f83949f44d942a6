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
	gormlogger "gorm.io/gorm/logger"

	"image_upload/config"
	"image_upload/db"
	"image_upload/frontend"
	"image_upload/handlers"
	"image_upload/logger"
	"image_upload/server"
	"image_upload/storage"
	"image_upload/thumbnail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "CRITICAL: Failed to load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "CRITICAL: Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
	log.Info("Server exited")
}

func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Storage, error) {
	if cfg.Storage.Backend == "s3" {
		return storage.NewS3(ctx, &cfg.S3, log)
	}
	return storage.NewLocal(cfg.Storage.UploadDir)
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.Storage.DBPath, gormlogger.Warn)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	log.Info("Connected to SQLite database", zap.String("path", cfg.Storage.DBPath))

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	widget, err := frontend.UploadWidget()
	if err != nil {
		return err
	}

	thumbs := thumbnail.New(store, cfg.App.ThumbSize, cfg.App.ThumbQuality, log)
	h := handlers.New(db.NewImages(conn), store, thumbs, &cfg.App, widget, log)

	srv, err := server.New(h, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	return nil
}
