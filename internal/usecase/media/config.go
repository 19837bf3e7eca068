package media

import (
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

const (
	ManifestName   = port.ManifestName
	SegmentPattern = port.SegmentPattern

	// maxVersionAttempts bounds the reload-and-retry loop on version conflicts.
	maxVersionAttempts = 3

	defaultSiblingPoll = 500 * time.Millisecond
)

type ShortFormPolicy string

const (
	// PolicySticky never clears an existing short-form flag.
	PolicySticky ShortFormPolicy = "sticky"
	// PolicyReset clears the flag when a later probe exceeds the limit.
	PolicyReset ShortFormPolicy = "reset"
)

// Thresholds holds the inclusive short-form limits, in seconds.
type Thresholds struct {
	ReelMaxSeconds  float64
	StoryMaxSeconds float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{ReelMaxSeconds: 90, StoryMaxSeconds: 15}
}

// MaxSeconds returns the limit for the given content kind.
func (t Thresholds) MaxSeconds(kind model.ContentKind) float64 {
	if kind == model.ContentKindStory {
		return t.StoryMaxSeconds
	}
	return t.ReelMaxSeconds
}

// IsShortForm reports whether a video of the given duration counts as short-form.
func (t Thresholds) IsShortForm(kind model.ContentKind, seconds float64) bool {
	return seconds <= t.MaxSeconds(kind)
}
