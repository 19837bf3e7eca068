package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/fhuszti/videos-ms-go/internal/validation"
)

// TranscodeVideoHandler handles a transcode-video task.
// It validates the payload, delegates to the port.VideoTranscoder service
// and records the outcome in the job status store.
func TranscodeVideoHandler(ctx context.Context, p task.TranscodeVideoPayload, svc port.VideoTranscoder, jobs port.JobStatusStore) (err error) {
	ctx = api_context.WithJobID(ctx, p.JobID)

	run := startJob(ctx, jobs, model.Job{
		ID:          p.JobID,
		Type:        model.JobTypeTranscode,
		ContentKind: model.ContentKind(p.ContentKind),
		ContentID:   p.ContentID,
		MediaID:     p.MediaID,
	})

	var out port.TranscodeVideoOutput
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", task.ErrJobPanicked, r)
		}
		run.finish(ctx, out.Stage, err)
	}()

	if err := validation.ValidateStruct(p); err != nil {
		logger.Errorf(ctx, "❌  Invalid transcode payload: %v", err)
		return fmt.Errorf("invalid transcode payload: %w", err)
	}

	out, err = svc.TranscodeVideo(ctx, p.Input())
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to transcode media #%s at stage %q: %v", p.MediaID, out.Stage, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully transcoded media #%s into %q", p.MediaID, out.PackageDir)
	return nil
}
