package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type videoTranscoderSrv struct {
	repo   port.ContentRepository
	layout port.StoreLayout
	tr     port.Transcoder
	jobs   port.JobStatusStore
	pub    port.PackagePublisher

	siblingWait time.Duration
	siblingPoll time.Duration
}

// compile-time check: *videoTranscoderSrv must satisfy port.VideoTranscoder
var _ port.VideoTranscoder = (*videoTranscoderSrv)(nil)

// NewVideoTranscoder builds the transcoding job. siblingWait bounds how long
// the source is kept around for a classification job still reading it; pub may be nil.
func NewVideoTranscoder(
	repo port.ContentRepository,
	layout port.StoreLayout,
	tr port.Transcoder,
	jobs port.JobStatusStore,
	pub port.PackagePublisher,
	siblingWait time.Duration,
) port.VideoTranscoder {
	return &videoTranscoderSrv{
		repo:        repo,
		layout:      layout,
		tr:          tr,
		jobs:        jobs,
		pub:         pub,
		siblingWait: siblingWait,
		siblingPoll: defaultSiblingPoll,
	}
}

// TranscodeVideo packages the source into a fresh content-store directory and
// points the media item at it. Until the record is updated every failure
// removes the package directory and leaves both the source and the record alone.
func (s *videoTranscoderSrv) TranscodeVideo(ctx context.Context, in port.TranscodeVideoInput) (out port.TranscodeVideoOutput, err error) {
	out.Stage = model.StageCreated

	dir, err := s.layout.NewPackageDir(in.ContentKind, in.OwnerID, in.ContentID)
	if err != nil {
		if errors.Is(err, ErrInvalidPathSegment) {
			return out, err
		}
		return out, wrapAs(ErrDirectoryCreationFailed, err)
	}
	out.Stage = model.StageDirectoryReady
	out.PackageDir = dir

	defer func() {
		if err != nil {
			s.discardPackage(ctx, dir)
			out.PackageDir = ""
		}
	}()

	res, err := s.tr.Transcode(ctx, in.SourcePath, dir)
	if err != nil {
		if errors.Is(err, ErrTranscodeTimeout) {
			return out, err
		}
		return out, wrapAs(ErrTranscodeFailed, err)
	}
	if err := verifyPackage(dir); err != nil {
		logger.Warnf(ctx, "transcoder exited with code %d but left no package: %s", res.ExitCode, lastDiagnostic(res.Diagnostics))
		return out, err
	}
	out.Stage = model.StageTranscoded

	content, err := s.repo.GetByID(ctx, in.ContentKind, in.ContentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, fmt.Errorf("%w: %s #%s", ErrRecordNotFound, in.ContentKind, in.ContentID)
		}
		return out, err
	}
	if content == nil {
		return out, fmt.Errorf("%w: %s #%s", ErrRecordNotFound, in.ContentKind, in.ContentID)
	}
	item, ok := content.MediaByID(in.MediaID)
	if !ok {
		return out, fmt.Errorf("%w: #%s in %s #%s", ErrMediaItemNotFound, in.MediaID, in.ContentKind, in.ContentID)
	}
	if item.Location != in.SourcePath {
		return out, fmt.Errorf("%w: #%s is at %q", ErrMediaItemMoved, in.MediaID, item.Location)
	}

	moved, err := s.repo.UpdateMediaLocation(ctx, in.MediaID, in.SourcePath, dir)
	if err != nil {
		return out, fmt.Errorf("failed updating media #%s: %w", in.MediaID, err)
	}
	if !moved {
		return out, fmt.Errorf("%w: #%s changed while transcoding", ErrMediaItemMoved, in.MediaID)
	}
	out.Stage = model.StageRecordUpdated

	// from here on the package is live, nothing below may fail the job
	out.SourceDeleted = s.deleteSource(ctx, in)
	out.Stage = model.StageCleaned

	s.publish(ctx, in, dir)
	return out, nil
}

func (s *videoTranscoderSrv) deleteSource(ctx context.Context, in port.TranscodeVideoInput) bool {
	if !s.waitForSibling(ctx, in.ClassifyJobID) {
		metrics.IncSourceDeletionFailed()
		logger.Warnf(ctx, "%v: classification #%s still reads %q, leaving it to the orphaned upload sweep", ErrSourceDeletionFailed, in.ClassifyJobID, in.SourcePath)
		return false
	}
	if err := os.Remove(in.SourcePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		metrics.IncSourceDeletionFailed()
		logger.Warnf(ctx, "%v: %q: %v", ErrSourceDeletionFailed, in.SourcePath, err)
		return false
	}
	return true
}

// waitForSibling polls the status store until the classification job reading
// the same source is terminal. Unknown jobs count as done.
func (s *videoTranscoderSrv) waitForSibling(ctx context.Context, jobID string) bool {
	if jobID == "" || s.jobs == nil {
		return true
	}
	deadline := time.NewTimer(s.siblingWait)
	defer deadline.Stop()
	tick := time.NewTicker(s.siblingPoll)
	defer tick.Stop()

	for {
		job, err := s.jobs.Get(ctx, jobID)
		switch {
		case err != nil:
			logger.Warnf(ctx, "could not read status of job #%s: %v", jobID, err)
		case job == nil || job.IsTerminal():
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
		}
	}
}

func (s *videoTranscoderSrv) publish(ctx context.Context, in port.TranscodeVideoInput, dir string) {
	if s.pub == nil {
		return
	}
	prefix := path.Join(string(in.ContentKind), in.OwnerID, in.ContentID, filepath.Base(dir))
	if err := s.pub.PublishPackage(ctx, dir, prefix); err != nil {
		metrics.IncPackagePublish("failed")
		logger.Warnf(ctx, "failed to mirror package %q: %v", dir, err)
		return
	}
	metrics.IncPackagePublish("ok")
}

func (s *videoTranscoderSrv) discardPackage(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		logger.Warnf(ctx, "failed to remove package directory %q: %v", dir, err)
	}
}

// verifyPackage checks that dir holds the manifest and at least one segment.
func verifyPackage(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, ManifestName)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTranscodeOutputMissing, ManifestName, err)
	}
	segments, err := filepath.Glob(filepath.Join(dir, "segment_*.ts"))
	if err != nil || len(segments) == 0 {
		return fmt.Errorf("%w: no segments in %q", ErrTranscodeOutputMissing, dir)
	}
	return nil
}

func lastDiagnostic(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no diagnostics"
}

// wrapAs returns err unchanged when it already carries sentinel.
func wrapAs(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
