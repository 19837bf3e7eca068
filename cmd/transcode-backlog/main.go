package main

import (
	"context"
	"os"

	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/db"
	"github.com/fhuszti/videos-ms-go/internal/jobstatus"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/task"
	mediaSvc "github.com/fhuszti/videos-ms-go/internal/usecase/media"
)

// transcode-backlog re-dispatches videos whose record still points into the
// temporary upload directory an hour after upload, then removes uploads no
// record points at anymore. Meant to run from cron.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "❌  Redis not configured: this command requires a running Redis instance")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword, cfg.TranscodeTimeout, cfg.ProbeTimeout)
	defer func() { _ = dispatcher.Close() }()
	jobs := jobstatus.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.JobStatusTTL)
	defer func() { _ = jobs.Close() }()

	repo := mariadb.NewContentRepository(database.DB)
	requeuer := mediaSvc.NewBacklogRequeuer(repo, dispatcher, jobs, cfg.TempUploadDir)
	if err := requeuer.RequeueBacklog(ctx); err != nil {
		logger.Errorf(ctx, "❌  Backlog transcoding failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Backlog transcoding dispatched")

	removed, err := requeuer.RemoveOrphanedSources(ctx, cfg.OrphanSourceAge)
	if err != nil {
		logger.Errorf(ctx, "❌  Orphaned upload sweep failed: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Removed %d orphaned uploads", removed)
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
