package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

func newTestLayout(t *testing.T) (*Layout, string, string) {
	t.Helper()
	root := t.TempDir()
	posts := filepath.Join(root, "posts")
	stories := filepath.Join(root, "stories")
	return New(posts, stories), posts, stories
}

func TestBaseDir_ByKind(t *testing.T) {
	l, posts, stories := newTestLayout(t)

	dir, err := l.BaseDir(model.ContentKindPost, "U1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(posts, "U1", "P1"); dir != want {
		t.Errorf("dir = %q; want %q", dir, want)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("base dir not created: %v", err)
	}

	dir, err = l.BaseDir(model.ContentKindStory, "U1", "S1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(stories, "U1", "S1"); dir != want {
		t.Errorf("dir = %q; want %q", dir, want)
	}

	// existing directory is fine
	if _, err := l.BaseDir(model.ContentKindStory, "U1", "S1"); err != nil {
		t.Errorf("second call failed: %v", err)
	}
}

func TestBaseDir_InvalidSegments(t *testing.T) {
	l, _, _ := newTestLayout(t)

	for _, seg := range []string{"", ".", "..", "a/b", `a\b`} {
		if _, err := l.BaseDir(model.ContentKindPost, seg, "P1"); !errors.Is(err, port.ErrInvalidPathSegment) {
			t.Errorf("owner %q: expected ErrInvalidPathSegment, got %v", seg, err)
		}
		if _, err := l.BaseDir(model.ContentKindPost, "U1", seg); !errors.Is(err, port.ErrInvalidPathSegment) {
			t.Errorf("content %q: expected ErrInvalidPathSegment, got %v", seg, err)
		}
	}
	if _, err := l.BaseDir(model.ContentKind("reel"), "U1", "P1"); !errors.Is(err, port.ErrInvalidPathSegment) {
		t.Errorf("unknown kind: expected ErrInvalidPathSegment, got %v", err)
	}
}

func TestBaseDir_CreationFailure(t *testing.T) {
	root := t.TempDir()
	// a regular file where the root directory should be
	blocker := filepath.Join(root, "posts")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	l := New(blocker, filepath.Join(root, "stories"))

	_, err := l.BaseDir(model.ContentKindPost, "U1", "P1")
	if !errors.Is(err, port.ErrDirectoryCreationFailed) {
		t.Fatalf("expected ErrDirectoryCreationFailed, got %v", err)
	}
	if _, err := l.NewPackageDir(model.ContentKindPost, "U1", "P1"); !errors.Is(err, port.ErrDirectoryCreationFailed) {
		t.Fatalf("expected ErrDirectoryCreationFailed, got %v", err)
	}
}

func TestNewPackageDir_Unique(t *testing.T) {
	l, posts, _ := newTestLayout(t)
	base := filepath.Join(posts, "U1", "P1")

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		dir, err := l.NewPackageDir(model.ContentKindPost, "U1", "P1")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if filepath.Dir(dir) != base {
			t.Fatalf("dir %q not under %q", dir, base)
		}
		if _, dup := seen[dir]; dup {
			t.Fatalf("duplicate package dir %q after %d calls", dir, i)
		}
		seen[dir] = struct{}{}
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("read base: %v", err)
	}
	if len(entries) != n {
		t.Errorf("expected %d directories on disk, got %d", n, len(entries))
	}
}

func TestNewPackageDir_NeverReused(t *testing.T) {
	root := t.TempDir()
	ids := []string{"fixed", "fixed", "fixed", "fixed"}
	i := 0
	gen := func() string { id := ids[i]; i++; return id }
	l := NewWithIDGen(filepath.Join(root, "posts"), filepath.Join(root, "stories"), gen)

	first, err := l.NewPackageDir(model.ContentKindPost, "U1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(first) != "fixed" {
		t.Fatalf("unexpected dir %q", first)
	}

	// every following draw collides with the existing directory
	if _, err := l.NewPackageDir(model.ContentKindPost, "U1", "P1"); !errors.Is(err, port.ErrDirectoryCreationFailed) {
		t.Fatalf("expected ErrDirectoryCreationFailed on collision, got %v", err)
	}
}

func TestNew_NormalisesRoots(t *testing.T) {
	l := New("/srv/media//posts/", "/srv/media/stories/./")
	if l.postRoot != filepath.Clean("/srv/media/posts") {
		t.Errorf("postRoot = %q", l.postRoot)
	}
	if l.storyRoot != filepath.Clean("/srv/media/stories") {
		t.Errorf("storyRoot = %q", l.storyRoot)
	}
}
