package model

import (
	"errors"
	"fmt"
	"time"
)

type ContentKind string

const (
	ContentKindPost  ContentKind = "post"
	ContentKindStory ContentKind = "story"
)

func (k ContentKind) IsValid() bool {
	return k == ContentKindPost || k == ContentKindStory
}

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

var ErrDuplicateLocation = errors.New("two media items share the same location")

// MediaItem is a single uploaded image or video attached to a content record.
// Location is written only by the transcoding job.
type MediaItem struct {
	ID        string    `json:"id"`
	ContentID string    `json:"content_id"`
	Location  string    `json:"location"`
	Kind      MediaKind `json:"kind"`
	AltText   *string   `json:"alt_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Content is a post or a story owning one or more media items.
// Version is bumped on every write of the record itself and guards
// the short-form flag against lost updates.
type Content struct {
	ID          string      `json:"id"`
	Kind        ContentKind `json:"kind"`
	OwnerID     string      `json:"owner_id"`
	IsShortForm bool        `json:"is_short_form"`
	Version     int64       `json:"version"`
	Media       []MediaItem `json:"media"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// MediaByID returns the media item with the given stable id.
func (c *Content) MediaByID(id string) (*MediaItem, bool) {
	for i := range c.Media {
		if c.Media[i].ID == id {
			return &c.Media[i], true
		}
	}
	return nil, false
}

func (c *Content) CheckUniqueLocations() error {
	seen := make(map[string]string, len(c.Media))
	for _, m := range c.Media {
		if other, ok := seen[m.Location]; ok {
			return fmt.Errorf("%w: %q used by #%s and #%s", ErrDuplicateLocation, m.Location, other, m.ID)
		}
		seen[m.Location] = m.ID
	}
	return nil
}

// PendingVideo is a video media item whose location still points into the
// temporary upload directory.
type PendingVideo struct {
	ContentKind ContentKind
	ContentID   string
	OwnerID     string
	MediaID     string
	Location    string
}
