package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quillcast/reel/internal/backup"
	"github.com/quillcast/reel/internal/config"
	"github.com/quillcast/reel/internal/events"
	"github.com/quillcast/reel/internal/server"
	"github.com/quillcast/reel/internal/store/postgres"
)

func runServe() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			store.Close()
			return err
		}
		publisher = pub
		logger.Info("events enabled", "nats_url", cfg.NATSURL)
	} else {
		publisher = &events.NoopPublisher{}
		logger.Info("events disabled (REEL_NATS_URL not set)")
	}

	studio := server.NewStudioServer(store, publisher)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: studio.NewHTTPHandler(cfg.AuthToken),
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "err", err)
		}
	}()

	// Accept teardown snapshots couriered over NATS.
	var flushStop func()
	if cfg.NATSURL != "" {
		flushSub, err := events.NewNATSSubscriber(cfg.NATSURL)
		if err != nil {
			logger.Error("failed to create flush subscriber", "err", err)
		} else {
			stop, err := studio.StartFlushSubscriber(flushSub)
			if err != nil {
				logger.Error("failed to start flush subscriber", "err", err)
				flushSub.Close()
			} else {
				flushStop = func() {
					stop()
					flushSub.Close()
				}
				logger.Info("flush subscriber started")
			}
		}
	}

	// Start the backup scheduler if any destinations are configured.
	var scheduler *backup.Scheduler
	if cfg.BackupInterval > 0 {
		var dests []backup.Destination

		if cfg.BackupS3Bucket != "" {
			s3Dest, err := backup.NewS3Destination(
				context.Background(),
				cfg.BackupS3Bucket,
				cfg.BackupS3Key,
				cfg.BackupS3Region,
				cfg.BackupS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 backup destination", "err", err)
			} else {
				dests = append(dests, s3Dest)
				logger.Info("backup S3 destination enabled", "bucket", cfg.BackupS3Bucket, "key", cfg.BackupS3Key)
			}
		}

		if cfg.BackupFile != "" {
			dests = append(dests, backup.NewFileDestination(cfg.BackupFile))
			logger.Info("backup file destination enabled", "path", cfg.BackupFile)
		}

		if len(dests) > 0 {
			scheduler = backup.NewScheduler(store, dests, cfg.BackupInterval, logger)
			scheduler.Start()
			logger.Info("backup scheduler started", "interval", cfg.BackupInterval)
		}
	}

	logger.Info("reeld started", "http_addr", cfg.HTTPAddr)

	// Wait for SIGINT or SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	if flushStop != nil {
		flushStop()
		logger.Info("flush subscriber stopped")
	}

	if scheduler != nil {
		scheduler.Stop()
		logger.Info("backup scheduler stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}
	logger.Info("HTTP server stopped")

	if err := publisher.Close(); err != nil {
		logger.Error("error closing publisher", "err", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("error closing store", "err", err)
	}

	logger.Info("shutdown complete")
	return nil
}
