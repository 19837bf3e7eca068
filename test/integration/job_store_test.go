package integration

import (
	"context"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/jobstatus"
	"github.com/fhuszti/videos-ms-go/internal/model"
)

func TestRedisJobStoreIntegration(t *testing.T) {
	ctx := context.Background()
	store := jobstatus.NewRedisStore(RedisAddr, "", time.Minute)
	defer func() { _ = store.Close() }()

	job := &model.Job{
		ID:          "job-it-1",
		Type:        model.JobTypeClassify,
		ContentKind: model.ContentKindStory,
		ContentID:   "s1",
		MediaID:     "m1",
		Status:      model.JobStatusQueued,
		Stage:       model.StageCreated,
		EnqueuedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	job.Status = model.JobStatusFailed
	job.Stage = model.StageProbed
	job.Error = "probe timed out"
	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "job-it-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || !got.IsTerminal() || got.Stage != model.StageProbed || got.Error != "probe timed out" {
		t.Errorf("Get = %+v", got)
	}
	if !got.EnqueuedAt.Equal(job.EnqueuedAt) {
		t.Errorf("EnqueuedAt = %v; want %v", got.EnqueuedAt, job.EnqueuedAt)
	}

	ttl, err := Redis.TTL(ctx, "video-job:job-it-1").Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v; want within (0, 1m]", ttl)
	}

	unknown, err := store.Get(ctx, "job-it-missing")
	if err != nil || unknown != nil {
		t.Errorf("Get(unknown) = %v, %v; want nil, nil", unknown, err)
	}
}
