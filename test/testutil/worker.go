package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/videos-ms-go/internal/ffmpeg"
	workerHandler "github.com/fhuszti/videos-ms-go/internal/handler/worker"
	"github.com/fhuszti/videos-ms-go/internal/layout"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/task"
	mediaSvc "github.com/fhuszti/videos-ms-go/internal/usecase/media"
)

type WorkerDirs struct {
	Posts   string
	Stories string
}

// StartWorker runs an asynq server with the real transcode and classify jobs.
// It returns a function to gracefully shut down the worker.
func StartWorker(dbConn *sql.DB, jobs port.JobStatusStore, redisAddr string, dirs WorkerDirs) func() {
	const probeTimeout = 30 * time.Second

	repo := mariadb.NewContentRepository(dbConn)
	transcodeSvc := mediaSvc.NewVideoTranscoder(
		repo,
		layout.New(dirs.Posts, dirs.Stories),
		ffmpeg.NewTranscoder("ffmpeg", 2, 2*time.Minute),
		jobs,
		nil,
		2*probeTimeout,
	)
	classifySvc := mediaSvc.NewReelClassifier(
		repo,
		ffmpeg.NewProber("ffprobe", probeTimeout),
		mediaSvc.DefaultThresholds(),
		mediaSvc.PolicySticky,
	)

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{task.QueueMedia: 1},
	})
	go func() {
		if err := srv.Run(workerHandler.NewServeMux(transcodeSvc, classifySvc, jobs)); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
	}
}
