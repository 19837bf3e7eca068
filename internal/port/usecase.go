package port

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// VideoTranscoder runs the transcoding job for one media item.
type VideoTranscoder interface {
	TranscodeVideo(ctx context.Context, in TranscodeVideoInput) (TranscodeVideoOutput, error)
}
type TranscodeVideoInput struct {
	JobID         string
	ContentKind   model.ContentKind
	ContentID     string
	OwnerID       string
	MediaID       string
	SourcePath    string
	ClassifyJobID string
}
type TranscodeVideoOutput struct {
	Stage         model.JobStage
	PackageDir    string
	SourceDeleted bool
}

// ReelClassifier flags short-form videos on their content record.
type ReelClassifier interface {
	ClassifyVideo(ctx context.Context, in ClassifyVideoInput) (ClassifyVideoOutput, error)
}
type ClassifyVideoInput struct {
	JobID       string
	ContentKind model.ContentKind
	ContentID   string
	MediaID     string
	SourcePath  string
}
type ClassifyVideoOutput struct {
	Stage       model.JobStage
	Seconds     float64
	IsShortForm bool
	Changed     bool
}

// UploadSubmitter dispatches the jobs for a freshly written upload.
type UploadSubmitter interface {
	SubmitUpload(ctx context.Context, in SubmitUploadInput) (SubmitUploadOutput, error)
}
type SubmitUploadItem struct {
	MediaID    string
	SourcePath string
	Kind       model.MediaKind
}
type SubmitUploadInput struct {
	ContentKind model.ContentKind
	ContentID   string
	OwnerID     string
	Items       []SubmitUploadItem
}
type SubmittedJob struct {
	ID      string        `json:"id"`
	Type    model.JobType `json:"type"`
	MediaID string        `json:"media_id"`
}
type SubmitUploadOutput struct {
	Jobs []SubmittedJob `json:"jobs"`
}

// StoryValidator checks a story video against the story duration limit before it is accepted.
type StoryValidator interface {
	ValidateStoryVideo(ctx context.Context, path string) (bool, float64, error)
}

// BacklogRequeuer dispatches transcoding again for videos left in the temporary directory.
type BacklogRequeuer interface {
	RequeueBacklog(ctx context.Context) error
	// RemoveOrphanedSources deletes temporary files older than maxAge that no
	// media item points at, and reports how many were removed.
	RemoveOrphanedSources(ctx context.Context, maxAge time.Duration) (int, error)
}
