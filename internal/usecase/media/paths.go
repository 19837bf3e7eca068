package media

import (
	"path/filepath"
	"strings"
)

// IsWithinDir reports whether path sits strictly inside dir once both are cleaned.
func IsWithinDir(dir, path string) bool {
	dir = filepath.Clean(filepath.FromSlash(dir))
	path = filepath.Clean(filepath.FromSlash(path))
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
