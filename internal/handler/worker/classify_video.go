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

// ClassifyVideoHandler handles a classify-video task.
func ClassifyVideoHandler(ctx context.Context, p task.ClassifyVideoPayload, svc port.ReelClassifier, jobs port.JobStatusStore) (err error) {
	ctx = api_context.WithJobID(ctx, p.JobID)

	run := startJob(ctx, jobs, model.Job{
		ID:          p.JobID,
		Type:        model.JobTypeClassify,
		ContentKind: model.ContentKind(p.ContentKind),
		ContentID:   p.ContentID,
		MediaID:     p.MediaID,
	})

	var out port.ClassifyVideoOutput
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", task.ErrJobPanicked, r)
		}
		run.finish(ctx, out.Stage, err)
	}()

	if err := validation.ValidateStruct(p); err != nil {
		logger.Errorf(ctx, "❌  Invalid classify payload: %v", err)
		return fmt.Errorf("invalid classify payload: %w", err)
	}

	out, err = svc.ClassifyVideo(ctx, p.Input())
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to classify media #%s: %v", p.MediaID, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully classified media #%s (%.2fs, short-form: %t)", p.MediaID, out.Seconds, out.IsShortForm)
	return nil
}
