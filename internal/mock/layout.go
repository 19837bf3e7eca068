package mock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// MockLayout implements port.StoreLayout on top of a real directory,
// usually t.TempDir(), naming packages pkg-1, pkg-2, ...
type MockLayout struct {
	Root string

	BaseErr error
	NewErr  error

	Created []string
}

func (m *MockLayout) BaseDir(kind model.ContentKind, ownerID, contentID string) (string, error) {
	if m.BaseErr != nil {
		return "", m.BaseErr
	}
	dir := filepath.Join(m.Root, string(kind), ownerID, contentID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func (m *MockLayout) NewPackageDir(kind model.ContentKind, ownerID, contentID string) (string, error) {
	if m.NewErr != nil {
		return "", m.NewErr
	}
	base, err := m.BaseDir(kind, ownerID, contentID)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, fmt.Sprintf("pkg-%d", len(m.Created)+1))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", err
	}
	m.Created = append(m.Created, dir)
	return dir, nil
}
