package port

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// ContentRepository defines persistence operations for content records and their media items.
type ContentRepository interface {
	GetByID(ctx context.Context, kind model.ContentKind, id string) (*model.Content, error)
	// UpdateMediaLocation moves a media item from oldLocation to newLocation.
	// It reports false when the item no longer sits at oldLocation.
	UpdateMediaLocation(ctx context.Context, mediaID, oldLocation, newLocation string) (bool, error)
	// UpdateShortForm writes the flag only if the record is still at expectedVersion.
	UpdateShortForm(ctx context.Context, kind model.ContentKind, contentID string, isShortForm bool, expectedVersion int64) (bool, error)
	ListPendingVideosBefore(ctx context.Context, tempPrefix string, before time.Time) ([]model.PendingVideo, error)
	// ListLocationsUnder returns the location of every media item, of any kind, below prefix.
	ListLocationsUnder(ctx context.Context, prefix string) ([]string, error)
}
