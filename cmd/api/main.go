package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/db"
	"github.com/fhuszti/videos-ms-go/internal/ffmpeg"
	"github.com/fhuszti/videos-ms-go/internal/handler/api"
	workerHandler "github.com/fhuszti/videos-ms-go/internal/handler/worker"
	"github.com/fhuszti/videos-ms-go/internal/jobstatus"
	"github.com/fhuszti/videos-ms-go/internal/layout"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/videos-ms-go/internal/middleware"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/storage"
	"github.com/fhuszti/videos-ms-go/internal/task"
	mediaSvc "github.com/fhuszti/videos-ms-go/internal/usecase/media"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)
	repo := mariadb.NewContentRepository(database.DB)
	thresholds := mediaSvc.Thresholds{ReelMaxSeconds: cfg.ReelMaxSeconds, StoryMaxSeconds: cfg.StoryMaxSeconds}
	prober := ffmpeg.NewProber(cfg.FFprobePath, cfg.ProbeTimeout)

	var jobs port.JobStatusStore
	var dispatcher port.TaskDispatcher
	var local *task.LocalDispatcher
	if cfg.RedisAddr != "" {
		jobs = jobstatus.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.JobStatusTTL)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword, cfg.TranscodeTimeout, cfg.ProbeTimeout)
		logger.Info(ctx, "✅  Redis enabled, jobs are handed to the worker")
	} else {
		jobs = jobstatus.NewMemoryStore(cfg.JobStatusTTL)
		transcoder := mediaSvc.NewVideoTranscoder(
			repo,
			layout.New(cfg.PostMediaDir, cfg.StoryMediaDir),
			ffmpeg.NewTranscoder(cfg.FFmpegPath, cfg.HLSSegmentSeconds, cfg.TranscodeTimeout),
			jobs,
			initPublisher(ctx, cfg),
			2*cfg.ProbeTimeout,
		)
		classifier := mediaSvc.NewReelClassifier(repo, prober, thresholds, mediaSvc.ShortFormPolicy(cfg.ShortFormPolicy))
		local = task.NewLocalDispatcher(workerHandler.NewServeMux(transcoder, classifier, jobs), cfg.WorkerConcurrency)
		dispatcher = local
		logger.Warn(ctx, "⚠️  Redis not configured, jobs run inside the API process")
	}

	r := initRouter(ctx)
	r.Group(func(r chi.Router) {
		r.Use(cMiddleware.WithDSTAuth(cfg.JWTPublicKey))

		submitSvc := mediaSvc.NewUploadSubmitter(dispatcher, jobs, cfg.TempUploadDir)
		r.Post("/uploads", api.SubmitUploadHandler(submitSvc))

		r.With(cMiddleware.WithJobID()).
			Get("/jobs/{id}", api.GetJobHandler(jobs))

		storySvc := mediaSvc.NewStoryValidator(prober, thresholds, cfg.TempUploadDir)
		r.Post("/stories/validate", api.ValidateStoryHandler(storySvc))
	})

	listenRouter(ctx, r, cfg, database, local)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
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

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func initPublisher(ctx context.Context, cfg *config.Settings) port.PackagePublisher {
	if cfg.MinioEndpoint == "" {
		return nil
	}
	pub, err := storage.NewMinioPublisher(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}
	return pub
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database, local *task.LocalDispatcher) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if local != nil {
		// in-process jobs get the same grace period as the asynq worker
		jobsCtx, cancelJobs := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelJobs()
		if err := local.Shutdown(jobsCtx); err != nil {
			logger.Warnf(ctx, "in-process jobs cancelled: %v", err)
		}
	}

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
