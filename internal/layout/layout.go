package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	msuuid "github.com/fhuszti/videos-ms-go/internal/uuid"
)

const (
	dirPerm = 0o755

	// attempts at drawing a package id that is not already on disk
	maxPackageAttempts = 3
)

// Layout places streaming packages under <root(kind)>/<owner>/<content>/<random>.
type Layout struct {
	postRoot  string
	storyRoot string
	newID     msuuid.Gen
}

// compile-time check: *Layout must satisfy port.StoreLayout
var _ port.StoreLayout = (*Layout)(nil)

func New(postRoot, storyRoot string) *Layout {
	return NewWithIDGen(postRoot, storyRoot, msuuid.New)
}

func NewWithIDGen(postRoot, storyRoot string, gen msuuid.Gen) *Layout {
	return &Layout{
		postRoot:  filepath.Clean(filepath.FromSlash(postRoot)),
		storyRoot: filepath.Clean(filepath.FromSlash(storyRoot)),
		newID:     gen,
	}
}

func (l *Layout) root(kind model.ContentKind) (string, error) {
	switch kind {
	case model.ContentKindPost:
		return l.postRoot, nil
	case model.ContentKindStory:
		return l.storyRoot, nil
	default:
		return "", fmt.Errorf("%w: unknown content kind %q", port.ErrInvalidPathSegment, kind)
	}
}

// BaseDir returns the directory holding every package of a content record, creating it if needed.
func (l *Layout) BaseDir(kind model.ContentKind, ownerID, contentID string) (string, error) {
	root, err := l.root(kind)
	if err != nil {
		return "", err
	}
	for _, seg := range []string{ownerID, contentID} {
		if !model.IsValidPathSegment(seg) {
			return "", fmt.Errorf("%w: %q", port.ErrInvalidPathSegment, seg)
		}
	}

	dir := filepath.Join(root, ownerID, contentID)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: %s: %v", port.ErrDirectoryCreationFailed, dir, err)
	}
	return dir, nil
}

// NewPackageDir creates a fresh, empty directory for one streaming package.
// A directory is never handed out twice.
func (l *Layout) NewPackageDir(kind model.ContentKind, ownerID, contentID string) (string, error) {
	base, err := l.BaseDir(kind, ownerID, contentID)
	if err != nil {
		return "", err
	}

	var lastErr error
	for i := 0; i < maxPackageAttempts; i++ {
		dir := filepath.Join(base, l.newID())
		err := os.Mkdir(dir, dirPerm)
		if err == nil {
			return dir, nil
		}
		lastErr = err
		if !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", port.ErrDirectoryCreationFailed, lastErr)
}
