package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/hibiken/asynq"
)

const (
	TypeTranscodeVideo = string(model.JobTypeTranscode)
	TypeClassifyVideo  = string(model.JobTypeClassify)

	QueueMedia = "media"
)

type TranscodeVideoPayload struct {
	JobID         string `json:"job_id" validate:"required"`
	ContentKind   string `json:"content_kind" validate:"required,oneof=post story"`
	ContentID     string `json:"content_id" validate:"required,pathsegment"`
	OwnerID       string `json:"owner_id" validate:"required,pathsegment"`
	MediaID       string `json:"media_id" validate:"required"`
	SourcePath    string `json:"source_path" validate:"required"`
	ClassifyJobID string `json:"classify_job_id,omitempty"`
}

func NewTranscodeVideoPayload(in port.TranscodeVideoInput) TranscodeVideoPayload {
	return TranscodeVideoPayload{
		JobID:         in.JobID,
		ContentKind:   string(in.ContentKind),
		ContentID:     in.ContentID,
		OwnerID:       in.OwnerID,
		MediaID:       in.MediaID,
		SourcePath:    in.SourcePath,
		ClassifyJobID: in.ClassifyJobID,
	}
}

func (p TranscodeVideoPayload) Input() port.TranscodeVideoInput {
	return port.TranscodeVideoInput{
		JobID:         p.JobID,
		ContentKind:   model.ContentKind(p.ContentKind),
		ContentID:     p.ContentID,
		OwnerID:       p.OwnerID,
		MediaID:       p.MediaID,
		SourcePath:    p.SourcePath,
		ClassifyJobID: p.ClassifyJobID,
	}
}

// NewTranscodeVideoTask creates a single-attempt Asynq task whose id is the job id.
func NewTranscodeVideoTask(p TranscodeVideoPayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal transcode-video payload: %w", err)
	}
	return asynq.NewTask(TypeTranscodeVideo, data, taskOptions(p.JobID, opts)...), nil
}

// ParseTranscodeVideoPayload parses the task payload to TranscodeVideoPayload.
func ParseTranscodeVideoPayload(t *asynq.Task) (TranscodeVideoPayload, error) {
	var p TranscodeVideoPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return TranscodeVideoPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

type ClassifyVideoPayload struct {
	JobID       string `json:"job_id" validate:"required"`
	ContentKind string `json:"content_kind" validate:"required,oneof=post story"`
	ContentID   string `json:"content_id" validate:"required,pathsegment"`
	MediaID     string `json:"media_id" validate:"required"`
	SourcePath  string `json:"source_path" validate:"required"`
}

func NewClassifyVideoPayload(in port.ClassifyVideoInput) ClassifyVideoPayload {
	return ClassifyVideoPayload{
		JobID:       in.JobID,
		ContentKind: string(in.ContentKind),
		ContentID:   in.ContentID,
		MediaID:     in.MediaID,
		SourcePath:  in.SourcePath,
	}
}

func (p ClassifyVideoPayload) Input() port.ClassifyVideoInput {
	return port.ClassifyVideoInput{
		JobID:       p.JobID,
		ContentKind: model.ContentKind(p.ContentKind),
		ContentID:   p.ContentID,
		MediaID:     p.MediaID,
		SourcePath:  p.SourcePath,
	}
}

// NewClassifyVideoTask creates a single-attempt Asynq task whose id is the job id.
func NewClassifyVideoTask(p ClassifyVideoPayload, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal classify-video payload: %w", err)
	}
	return asynq.NewTask(TypeClassifyVideo, data, taskOptions(p.JobID, opts)...), nil
}

// ParseClassifyVideoPayload parses the task payload to ClassifyVideoPayload.
func ParseClassifyVideoPayload(t *asynq.Task) (ClassifyVideoPayload, error) {
	var p ClassifyVideoPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ClassifyVideoPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

func taskOptions(jobID string, extra []asynq.Option) []asynq.Option {
	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Queue(QueueMedia),
	}
	if jobID != "" {
		opts = append(opts, asynq.TaskID(jobID))
	}
	return append(opts, extra...)
}
