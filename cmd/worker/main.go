package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/db"
	"github.com/fhuszti/videos-ms-go/internal/ffmpeg"
	workerHandler "github.com/fhuszti/videos-ms-go/internal/handler/worker"
	"github.com/fhuszti/videos-ms-go/internal/jobstatus"
	"github.com/fhuszti/videos-ms-go/internal/layout"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/storage"
	"github.com/fhuszti/videos-ms-go/internal/task"
	mediaSvc "github.com/fhuszti/videos-ms-go/internal/usecase/media"
	"github.com/hibiken/asynq"

	"github.com/fhuszti/videos-ms-go/internal/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)

	jobs := jobstatus.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.JobStatusTTL)
	defer func() {
		if err := jobs.Close(); err != nil {
			logger.Warnf(ctx, "Redis close error: %v", err)
		}
	}()

	repo := mariadb.NewContentRepository(database.DB)
	transcodeSvc := mediaSvc.NewVideoTranscoder(
		repo,
		layout.New(cfg.PostMediaDir, cfg.StoryMediaDir),
		ffmpeg.NewTranscoder(cfg.FFmpegPath, cfg.HLSSegmentSeconds, cfg.TranscodeTimeout),
		jobs,
		initPublisher(ctx, cfg),
		2*cfg.ProbeTimeout,
	)
	classifySvc := mediaSvc.NewReelClassifier(
		repo,
		ffmpeg.NewProber(cfg.FFprobePath, cfg.ProbeTimeout),
		mediaSvc.Thresholds{ReelMaxSeconds: cfg.ReelMaxSeconds, StoryMaxSeconds: cfg.StoryMaxSeconds},
		mediaSvc.ShortFormPolicy(cfg.ShortFormPolicy),
	)

	mux := workerHandler.NewServeMux(transcodeSvc, classifySvc, jobs)

	runWorker(ctx, mux, cfg, database)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(ctx, db.Config{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initPublisher(ctx context.Context, cfg *config.Settings) port.PackagePublisher {
	if cfg.MinioEndpoint == "" {
		logger.Info(ctx, "MINIO_ENDPOINT not set, packages stay on local disk only")
		return nil
	}
	pub, err := storage.NewMinioPublisher(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}
	return pub
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues:      map[string]int{task.QueueMedia: 1},
	})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Infof(ctx, "🚀 Worker started (concurrency %d)", cfg.WorkerConcurrency)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// asynq waits up to ShutdownTimeout for in-flight tasks
	done := make(chan struct{})
	go func() {
		srv.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn(ctx, "worker did not stop in time")
	}

	// Close DB
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
