package port

import "context"

// TaskDispatcher hands jobs over for asynchronous execution. It never waits for the job to run.
type TaskDispatcher interface {
	EnqueueTranscodeVideo(ctx context.Context, in TranscodeVideoInput) error
	EnqueueClassifyVideo(ctx context.Context, in ClassifyVideoInput) error
}
