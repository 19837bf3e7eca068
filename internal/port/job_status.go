package port

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// JobStatusStore persists the observable state of dispatched jobs.
// Get returns (nil, nil) for unknown ids.
type JobStatusStore interface {
	Save(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, id string) (*model.Job, error)
}
