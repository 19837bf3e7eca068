package worker

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

// jobRun tracks one execution of a job in the status store.
// Store errors are logged only, the job itself keeps going.
type jobRun struct {
	jobs  port.JobStatusStore
	job   model.Job
	start time.Time
}

func startJob(ctx context.Context, jobs port.JobStatusStore, job model.Job) *jobRun {
	if prev, err := jobs.Get(ctx, job.ID); err != nil {
		logger.Warnf(ctx, "could not read status of job #%s: %v", job.ID, err)
	} else if prev != nil {
		job.EnqueuedAt = prev.EnqueuedAt
	}
	now := time.Now().UTC()
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = now
	}
	job.Status = model.JobStatusRunning
	job.Stage = model.StageCreated
	job.StartedAt = &now

	r := &jobRun{jobs: jobs, job: job, start: now}
	r.save(ctx)
	return r
}

func (r *jobRun) finish(ctx context.Context, stage model.JobStage, err error) {
	now := time.Now().UTC()
	r.job.FinishedAt = &now
	if stage != "" {
		r.job.Stage = stage
	}
	if err != nil {
		r.job.Status = model.JobStatusFailed
		r.job.Error = err.Error()
	} else {
		r.job.Status = model.JobStatusSucceeded
	}
	r.save(ctx)
	metrics.ObserveJob(string(r.job.Type), string(r.job.Status), now.Sub(r.start))
}

func (r *jobRun) save(ctx context.Context) {
	// the job may have been cancelled, its status still has to land
	if err := r.jobs.Save(context.WithoutCancel(ctx), &r.job); err != nil {
		logger.Warnf(ctx, "could not save status %q of job #%s: %v", r.job.Status, r.job.ID, err)
	}
}
