package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

// A user U1 uploads a single 45 second video for post P1: the post ends up
// flagged as short-form, its media item points at a fresh package under the
// post store, and the temporary file is gone.
func TestUploadFlow_SingleShortPostVideo(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	storeRoot := t.TempDir()
	src := filepath.Join(tempDir, "clip.mp4")
	if err := os.WriteFile(src, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := &mock.MockContentRepo{Content: &model.Content{
		ID:      "P1",
		Kind:    model.ContentKindPost,
		OwnerID: "U1",
		Version: 1,
		Media:   []model.MediaItem{{ID: "m1", ContentID: "P1", Location: src, Kind: model.MediaKindVideo}},
	}}
	jobs := &mock.MockJobStore{}
	tasks := &mock.MockDispatcher{}
	layout := &mock.MockLayout{Root: storeRoot}

	submitter := NewUploadSubmitter(tasks, jobs, tempDir)
	classifier := NewReelClassifier(repo, &mock.MockProber{Seconds: 45}, DefaultThresholds(), PolicySticky)
	transcoder := NewVideoTranscoder(repo, layout, &mock.MockTranscoder{WriteOutput: true}, jobs, nil, time.Second)

	out, err := submitter.SubmitUpload(ctx, port.SubmitUploadInput{
		ContentKind: model.ContentKindPost,
		ContentID:   "P1",
		OwnerID:     "U1",
		Items:       []port.SubmitUploadItem{{MediaID: "m1", SourcePath: src, Kind: model.MediaKindVideo}},
	})
	if err != nil {
		t.Fatalf("SubmitUpload: %v", err)
	}
	if len(out.Jobs) != 2 || len(tasks.ClassifyCalls) != 1 || len(tasks.TranscodeCalls) != 1 {
		t.Fatalf("unexpected dispatch: %+v", out.Jobs)
	}

	// run the jobs the way the worker would, recording the classification outcome
	cin := tasks.ClassifyCalls[0]
	cout, err := classifier.ClassifyVideo(ctx, cin)
	if err != nil {
		t.Fatalf("ClassifyVideo: %v", err)
	}
	if !cout.IsShortForm || cout.Seconds != 45 {
		t.Errorf("classification = %+v", cout)
	}
	_ = jobs.Save(ctx, &model.Job{ID: cin.JobID, Type: model.JobTypeClassify, Status: model.JobStatusSucceeded})

	tout, err := transcoder.TranscodeVideo(ctx, tasks.TranscodeCalls[0])
	if err != nil {
		t.Fatalf("TranscodeVideo: %v", err)
	}

	if !repo.Content.IsShortForm {
		t.Error("P1 should be flagged as short-form")
	}
	loc := repo.Content.Media[0].Location
	wantBase := filepath.Join(storeRoot, "post", "U1", "P1") + string(filepath.Separator)
	if loc != tout.PackageDir || !strings.HasPrefix(loc, wantBase) {
		t.Errorf("location = %q; want a package under %q", loc, wantBase)
	}
	if _, err := os.Stat(filepath.Join(loc, ManifestName)); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("temporary upload should be removed, stat err = %v", err)
	}
	if err := repo.Content.CheckUniqueLocations(); err != nil {
		t.Error(err)
	}
}
