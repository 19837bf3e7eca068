package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	msuuid "github.com/fhuszti/videos-ms-go/internal/uuid"
)

var ErrInvalidUpload = errors.New("upload: invalid submission")

type uploadSubmitterSrv struct {
	tasks   port.TaskDispatcher
	jobs    port.JobStatusStore
	tempDir string
	newID   msuuid.Gen
	now     func() time.Time
}

// compile-time check: *uploadSubmitterSrv must satisfy port.UploadSubmitter
var _ port.UploadSubmitter = (*uploadSubmitterSrv)(nil)

func NewUploadSubmitter(tasks port.TaskDispatcher, jobs port.JobStatusStore, tempDir string) port.UploadSubmitter {
	return &uploadSubmitterSrv{tasks: tasks, jobs: jobs, tempDir: tempDir, newID: msuuid.New, now: time.Now}
}

// SubmitUpload dispatches a transcoding job per video of the upload. A lone
// video is also classified; that job goes out first and the transcoding job
// keeps the source until it is done.
func (s *uploadSubmitterSrv) SubmitUpload(ctx context.Context, in port.SubmitUploadInput) (port.SubmitUploadOutput, error) {
	if err := s.validate(in); err != nil {
		return port.SubmitUploadOutput{}, err
	}

	out := port.SubmitUploadOutput{Jobs: []port.SubmittedJob{}}
	var classifyID string
	if len(in.Items) == 1 && in.Items[0].Kind == model.MediaKindVideo {
		item := in.Items[0]
		classifyID = s.newID()
		if err := s.markQueued(ctx, classifyID, model.JobTypeClassify, in, item.MediaID); err != nil {
			return out, err
		}
		if err := s.tasks.EnqueueClassifyVideo(ctx, port.ClassifyVideoInput{
			JobID:       classifyID,
			ContentKind: in.ContentKind,
			ContentID:   in.ContentID,
			MediaID:     item.MediaID,
			SourcePath:  item.SourcePath,
		}); err != nil {
			return out, fmt.Errorf("failed to dispatch classification of media #%s: %w", item.MediaID, err)
		}
		out.Jobs = append(out.Jobs, port.SubmittedJob{ID: classifyID, Type: model.JobTypeClassify, MediaID: item.MediaID})
	}

	for _, item := range in.Items {
		if item.Kind != model.MediaKindVideo {
			logger.Debugf(ctx, "media #%s is an image, nothing to transcode", item.MediaID)
			continue
		}
		id := s.newID()
		if err := s.markQueued(ctx, id, model.JobTypeTranscode, in, item.MediaID); err != nil {
			return out, err
		}
		if err := s.tasks.EnqueueTranscodeVideo(ctx, port.TranscodeVideoInput{
			JobID:         id,
			ContentKind:   in.ContentKind,
			ContentID:     in.ContentID,
			OwnerID:       in.OwnerID,
			MediaID:       item.MediaID,
			SourcePath:    item.SourcePath,
			ClassifyJobID: classifyID,
		}); err != nil {
			return out, fmt.Errorf("failed to dispatch transcoding of media #%s: %w", item.MediaID, err)
		}
		out.Jobs = append(out.Jobs, port.SubmittedJob{ID: id, Type: model.JobTypeTranscode, MediaID: item.MediaID})
	}

	logger.Infof(ctx, "dispatched %d job(s) for %s #%s", len(out.Jobs), in.ContentKind, in.ContentID)
	return out, nil
}

func (s *uploadSubmitterSrv) validate(in port.SubmitUploadInput) error {
	if !in.ContentKind.IsValid() {
		return fmt.Errorf("%w: unknown content kind %q", ErrInvalidUpload, in.ContentKind)
	}
	if !model.IsValidPathSegment(in.OwnerID) || !model.IsValidPathSegment(in.ContentID) {
		return ErrInvalidPathSegment
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: no media items", ErrInvalidUpload)
	}
	for _, item := range in.Items {
		if item.MediaID == "" {
			return fmt.Errorf("%w: media item without id", ErrInvalidUpload)
		}
		if item.Kind != model.MediaKindVideo && item.Kind != model.MediaKindImage {
			return fmt.Errorf("%w: unknown media kind %q", ErrInvalidUpload, item.Kind)
		}
		if item.Kind == model.MediaKindVideo && !IsWithinDir(s.tempDir, item.SourcePath) {
			return fmt.Errorf("%w: %q", ErrSourceOutsideTemp, item.SourcePath)
		}
	}
	return nil
}

func (s *uploadSubmitterSrv) markQueued(ctx context.Context, id string, typ model.JobType, in port.SubmitUploadInput, mediaID string) error {
	return recordQueued(ctx, s.jobs, &model.Job{
		ID:          id,
		Type:        typ,
		ContentKind: in.ContentKind,
		ContentID:   in.ContentID,
		MediaID:     mediaID,
		EnqueuedAt:  s.now().UTC(),
	})
}

// recordQueued saves the job before it is dispatched so a fast worker never
// finds it missing.
func recordQueued(ctx context.Context, jobs port.JobStatusStore, job *model.Job) error {
	job.Status = model.JobStatusQueued
	job.Stage = model.StageCreated
	if err := jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to record job #%s: %w", job.ID, err)
	}
	return nil
}
