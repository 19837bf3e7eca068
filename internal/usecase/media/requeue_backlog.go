package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	msuuid "github.com/fhuszti/videos-ms-go/internal/uuid"
)

type backlogRequeuerSrv struct {
	repo    port.ContentRepository
	tasks   port.TaskDispatcher
	jobs    port.JobStatusStore
	tempDir string
	newID   msuuid.Gen
	now     func() time.Time
}

// compile-time check: *backlogRequeuerSrv must satisfy port.BacklogRequeuer
var _ port.BacklogRequeuer = (*backlogRequeuerSrv)(nil)

// NewBacklogRequeuer constructs a BacklogRequeuer implementation.
func NewBacklogRequeuer(repo port.ContentRepository, tasks port.TaskDispatcher, jobs port.JobStatusStore, tempDir string) port.BacklogRequeuer {
	return &backlogRequeuerSrv{repo: repo, tasks: tasks, jobs: jobs, tempDir: tempDir, newID: msuuid.New, now: time.Now}
}

// RequeueBacklog looks for videos older than one hour that still point into
// the temporary upload directory and dispatches their transcoding again.
// Classification is left alone, it only ever runs on fresh single-video uploads.
func (s *backlogRequeuerSrv) RequeueBacklog(ctx context.Context) error {
	cutoff := s.now().Add(-1 * time.Hour)
	pending, err := s.repo.ListPendingVideosBefore(ctx, s.tempDir, cutoff)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		logger.Info(ctx, "no videos found to transcode")
		return nil
	}

	for _, v := range pending {
		logger.Infof(ctx, "starting transcoding for media #%s of %s #%s", v.MediaID, v.ContentKind, v.ContentID)
		id := s.newID()
		err := recordQueued(ctx, s.jobs, &model.Job{
			ID:          id,
			Type:        model.JobTypeTranscode,
			ContentKind: v.ContentKind,
			ContentID:   v.ContentID,
			MediaID:     v.MediaID,
			EnqueuedAt:  s.now().UTC(),
		})
		if err == nil {
			err = s.tasks.EnqueueTranscodeVideo(ctx, port.TranscodeVideoInput{
				JobID:       id,
				ContentKind: v.ContentKind,
				ContentID:   v.ContentID,
				OwnerID:     v.OwnerID,
				MediaID:     v.MediaID,
				SourcePath:  v.Location,
			})
		}
		if err != nil {
			logger.Warnf(ctx, "failed to enqueue transcode task for media #%s: %v", v.MediaID, err)
		}
	}
	return nil
}

// RemoveOrphanedSources clears uploads left behind in the temporary directory,
// typically a source the transcoder kept because its classification sibling
// never finished. Only regular files older than maxAge that no media item
// references are removed. A zero maxAge disables the sweep.
func (s *backlogRequeuerSrv) RemoveOrphanedSources(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	locations, err := s.repo.ListLocationsUnder(ctx, s.tempDir)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(locations))
	for _, loc := range locations {
		referenced[filepath.Clean(filepath.FromSlash(loc))] = struct{}{}
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	err = filepath.WalkDir(s.tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.tempDir {
				return err
			}
			logger.Warnf(ctx, "skipping %q: %v", path, err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := referenced[filepath.Clean(path)]; ok {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			metrics.IncSourceDeletionFailed()
			logger.Warnf(ctx, "%v: %q: %v", ErrSourceDeletionFailed, path, err)
			return nil
		}
		logger.Infof(ctx, "removed orphaned upload %q", path)
		removed++
		return nil
	})
	return removed, err
}
