package worker

import (
	"context"
	"encoding/json"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/hibiken/asynq"
)

// NewServeMux routes video tasks to their handlers. cmd/worker serves it
// from Redis, cmd/api runs it in-process when Redis is not configured.
func NewServeMux(transcoder port.VideoTranscoder, classifier port.ReelClassifier, jobs port.JobStatusStore) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeTranscodeVideo, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseTranscodeVideoPayload(t)
		if err != nil {
			return rejectPayload(ctx, t, model.JobTypeTranscode, jobs, err)
		}
		return TranscodeVideoHandler(ctx, p, transcoder, jobs)
	})
	mux.HandleFunc(task.TypeClassifyVideo, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseClassifyVideoPayload(t)
		if err != nil {
			return rejectPayload(ctx, t, model.JobTypeClassify, jobs, err)
		}
		return ClassifyVideoHandler(ctx, p, classifier, jobs)
	})
	return mux
}

// rejectPayload marks the job of an unreadable task as failed, so pollers
// do not see it queued forever. The job id comes from whatever part of the
// payload still decodes, or else from the asynq task id.
func rejectPayload(ctx context.Context, t *asynq.Task, typ model.JobType, jobs port.JobStatusStore, err error) error {
	id := payloadJobID(ctx, t)
	if id == "" {
		logger.Errorf(ctx, "❌  Unreadable %s payload without a job id: %v", typ, err)
		return err
	}
	ctx = api_context.WithJobID(ctx, id)
	logger.Errorf(ctx, "❌  Unreadable %s payload: %v", typ, err)

	run := startJob(ctx, jobs, model.Job{ID: id, Type: typ})
	run.finish(ctx, "", err)
	return err
}

func payloadJobID(ctx context.Context, t *asynq.Task) string {
	var p struct {
		JobID string `json:"job_id"`
	}
	if json.Unmarshal(t.Payload(), &p) == nil && p.JobID != "" {
		return p.JobID
	}
	if id, ok := asynq.GetTaskID(ctx); ok {
		return id
	}
	return ""
}
