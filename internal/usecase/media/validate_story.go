package media

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type storyValidatorSrv struct {
	prober     port.Prober
	thresholds Thresholds
	tempDir    string
}

// compile-time check: *storyValidatorSrv must satisfy port.StoryValidator
var _ port.StoryValidator = (*storyValidatorSrv)(nil)

func NewStoryValidator(prober port.Prober, thresholds Thresholds, tempDir string) port.StoryValidator {
	return &storyValidatorSrv{prober: prober, thresholds: thresholds, tempDir: tempDir}
}

// ValidateStoryVideo reports whether an uploaded file is short enough to be a story.
func (s *storyValidatorSrv) ValidateStoryVideo(ctx context.Context, path string) (bool, float64, error) {
	if !IsWithinDir(s.tempDir, path) {
		return false, 0, fmt.Errorf("%w: %q", ErrSourceOutsideTemp, path)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, 0, fmt.Errorf("%w: %q", ErrSourceNotFound, path)
		}
		return false, 0, err
	}

	seconds, err := s.prober.Duration(ctx, path)
	if err != nil {
		return false, 0, err
	}
	return s.thresholds.IsShortForm(model.ContentKindStory, seconds), seconds, nil
}
