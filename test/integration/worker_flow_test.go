package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/jobstatus"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/task"
	mediaSvc "github.com/fhuszti/videos-ms-go/internal/usecase/media"
	"github.com/fhuszti/videos-ms-go/test/testutil"
)

func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
}

func generateVideo(t *testing.T, path string, seconds int) {
	t.Helper()
	cmd := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error", "-y",
		"-f", "lavfi", "-i", "testsrc=size=160x120:rate=10",
		"-t", strconv.Itoa(seconds), "-pix_fmt", "yuv420p", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("generate video: %v: %s", err, out)
	}
}

func waitTerminal(t *testing.T, jobs port.JobStatusStore, id string) *model.Job {
	t.Helper()
	deadline := time.Now().Add(60 * time.Second)
	for {
		job, err := jobs.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get job %s: %v", id, err)
		}
		if job != nil && job.IsTerminal() {
			return job
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for job %s, last status %+v", id, job)
		}
		time.Sleep(250 * time.Millisecond)
	}
}

func TestWorkerFlowIntegration_ShortPost(t *testing.T) {
	requireFFmpeg(t)
	ctx := context.Background()
	db := setupDB(t).DB

	tempDir := t.TempDir()
	dirs := testutil.WorkerDirs{Posts: t.TempDir(), Stories: t.TempDir()}
	src := filepath.Join(tempDir, "upload.mp4")
	generateVideo(t, src, 3)

	testutil.InsertContent(t, db, model.ContentKindPost, "p1", "u1")
	testutil.InsertMedia(t, db, model.ContentKindPost, "p1", "m1", src, model.MediaKindVideo, time.Now())

	jobs := jobstatus.NewRedisStore(RedisAddr, "", 10*time.Minute)
	defer func() { _ = jobs.Close() }()
	stop := testutil.StartWorker(db, jobs, RedisAddr, dirs)
	defer stop()

	dispatcher := task.NewDispatcher(RedisAddr, "", 2*time.Minute, 30*time.Second)
	defer func() { _ = dispatcher.Close() }()
	submitter := mediaSvc.NewUploadSubmitter(dispatcher, jobs, tempDir)

	out, err := submitter.SubmitUpload(ctx, port.SubmitUploadInput{
		ContentKind: model.ContentKindPost,
		ContentID:   "p1",
		OwnerID:     "u1",
		Items:       []port.SubmitUploadItem{{MediaID: "m1", SourcePath: src, Kind: model.MediaKindVideo}},
	})
	if err != nil {
		t.Fatalf("SubmitUpload: %v", err)
	}
	if len(out.Jobs) != 2 {
		t.Fatalf("got %d jobs; want 2", len(out.Jobs))
	}

	for _, j := range out.Jobs {
		got := waitTerminal(t, jobs, j.ID)
		if got.Status != model.JobStatusSucceeded {
			t.Fatalf("job %s (%s) = %s at %s: %s", j.ID, j.Type, got.Status, got.Stage, got.Error)
		}
	}

	c, err := mariadb.NewContentRepository(db).GetByID(ctx, model.ContentKindPost, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !c.IsShortForm {
		t.Error("3 second post should be flagged short-form")
	}
	loc := c.Media[0].Location
	if filepath.Dir(loc) != filepath.Join(dirs.Posts, "u1", "p1") {
		t.Errorf("Location = %q; want a package dir under %q", loc, filepath.Join(dirs.Posts, "u1", "p1"))
	}
	if _, err := os.Stat(filepath.Join(loc, mediaSvc.ManifestName)); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
	segments, _ := filepath.Glob(filepath.Join(loc, "segment_*.ts"))
	if len(segments) == 0 {
		t.Error("no segments written")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should be deleted, stat err = %v", err)
	}
}
