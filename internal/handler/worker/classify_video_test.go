package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/task"
)

func validClassifyPayload() task.ClassifyVideoPayload {
	return task.ClassifyVideoPayload{
		JobID:       "job-2",
		ContentKind: "story",
		ContentID:   "S1",
		MediaID:     "m1",
		SourcePath:  "/tmp/uploads/a.mp4",
	}
}

func TestClassifyVideoHandler_InvalidPayload(t *testing.T) {
	svc := &mock.MockReelClassifier{}
	p := validClassifyPayload()
	p.ContentKind = "reel"

	if err := ClassifyVideoHandler(context.Background(), p, svc, &mock.MockJobStore{}); err == nil {
		t.Fatal("expected error for unknown content kind")
	}
	if svc.Called {
		t.Error("service should not be called on invalid payload")
	}
}

func TestClassifyVideoHandler_ServiceError(t *testing.T) {
	svcErr := errors.New("probe: malformed output")
	svc := &mock.MockReelClassifier{Err: svcErr, Out: port.ClassifyVideoOutput{Stage: model.StageCreated}}
	jobs := &mock.MockJobStore{}

	err := ClassifyVideoHandler(context.Background(), validClassifyPayload(), svc, jobs)
	if !errors.Is(err, svcErr) {
		t.Fatalf("got error %v; want %v", err, svcErr)
	}
	j, _ := jobs.Get(context.Background(), "job-2")
	if j == nil || j.Status != model.JobStatusFailed || j.Error != svcErr.Error() {
		t.Errorf("unexpected final record: %+v", j)
	}
}

func TestClassifyVideoHandler_Success(t *testing.T) {
	svc := &mock.MockReelClassifier{Out: port.ClassifyVideoOutput{Stage: model.StageClassified, Seconds: 9, IsShortForm: true, Changed: true}}
	jobs := &mock.MockJobStore{}

	if err := ClassifyVideoHandler(context.Background(), validClassifyPayload(), svc, jobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.In != validClassifyPayload().Input() {
		t.Errorf("service got %+v", svc.In)
	}
	j, _ := jobs.Get(context.Background(), "job-2")
	if j.Status != model.JobStatusSucceeded || j.Stage != model.StageClassified || j.Type != model.JobTypeClassify {
		t.Errorf("unexpected final record: %+v", j)
	}
}
