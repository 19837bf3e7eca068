package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type reelClassifierSrv struct {
	repo       port.ContentRepository
	prober     port.Prober
	thresholds Thresholds
	policy     ShortFormPolicy
}

// compile-time check: *reelClassifierSrv must satisfy port.ReelClassifier
var _ port.ReelClassifier = (*reelClassifierSrv)(nil)

func NewReelClassifier(repo port.ContentRepository, prober port.Prober, thresholds Thresholds, policy ShortFormPolicy) port.ReelClassifier {
	if policy == "" {
		policy = PolicySticky
	}
	return &reelClassifierSrv{repo: repo, prober: prober, thresholds: thresholds, policy: policy}
}

// ClassifyVideo probes the source and flags the content as short-form when
// the video fits the limit of its kind. The record is only loaded once the
// probe succeeded.
func (s *reelClassifierSrv) ClassifyVideo(ctx context.Context, in port.ClassifyVideoInput) (port.ClassifyVideoOutput, error) {
	out := port.ClassifyVideoOutput{Stage: model.StageCreated}

	if _, err := os.Stat(in.SourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, fmt.Errorf("%w: %q", ErrSourceNotFound, in.SourcePath)
		}
		return out, fmt.Errorf("stat %q: %w", in.SourcePath, err)
	}

	seconds, err := s.prober.Duration(ctx, in.SourcePath)
	if err != nil {
		if errors.Is(err, ErrProbeTimeout) || errors.Is(err, ErrProbeOutputMalformed) {
			return out, err
		}
		return out, wrapAs(ErrProbeFailed, err)
	}
	out.Stage = model.StageProbed
	out.Seconds = seconds
	out.IsShortForm = s.thresholds.IsShortForm(in.ContentKind, seconds)
	metrics.IncClassification(string(in.ContentKind), out.IsShortForm)

	if !out.IsShortForm && s.policy == PolicySticky {
		logger.Infof(ctx, "video #%s lasts %.2fs, over the %s limit", in.MediaID, seconds, in.ContentKind)
		out.Stage = model.StageClassified
		return out, nil
	}

	changed, err := s.applyFlag(ctx, in, out.IsShortForm)
	if err != nil {
		return out, err
	}
	out.Changed = changed
	out.Stage = model.StageClassified
	return out, nil
}

// applyFlag writes the flag with the record's version, reloading and
// retrying when another writer got there first.
func (s *reelClassifierSrv) applyFlag(ctx context.Context, in port.ClassifyVideoInput, shortForm bool) (bool, error) {
	for attempt := 1; attempt <= maxVersionAttempts; attempt++ {
		content, err := s.repo.GetByID(ctx, in.ContentKind, in.ContentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, fmt.Errorf("%w: %s #%s", ErrRecordNotFound, in.ContentKind, in.ContentID)
			}
			return false, err
		}
		if content == nil {
			return false, fmt.Errorf("%w: %s #%s", ErrRecordNotFound, in.ContentKind, in.ContentID)
		}
		if _, ok := content.MediaByID(in.MediaID); !ok {
			return false, fmt.Errorf("%w: #%s in %s #%s", ErrMediaItemNotFound, in.MediaID, in.ContentKind, in.ContentID)
		}
		if content.IsShortForm == shortForm {
			return false, nil
		}

		ok, err := s.repo.UpdateShortForm(ctx, in.ContentKind, in.ContentID, shortForm, content.Version)
		if err != nil {
			return false, fmt.Errorf("failed updating %s #%s: %w", in.ContentKind, in.ContentID, err)
		}
		if ok {
			logger.Infof(ctx, "%s #%s short-form flag set to %t", in.ContentKind, in.ContentID, shortForm)
			return true, nil
		}
		logger.Debugf(ctx, "version %d of %s #%s is stale (attempt %d)", content.Version, in.ContentKind, in.ContentID, attempt)
	}
	return false, fmt.Errorf("%w: %s #%s after %d attempts", ErrVersionConflict, in.ContentKind, in.ContentID, maxVersionAttempts)
}
