package ffmpeg

import (
	"go/build"
	"strings"
	"testing"
)

func TestDoesNotImportUseCases(t *testing.T) {
	pkg, err := build.ImportDir(".", 0)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	for _, imp := range pkg.Imports {
		if strings.Contains(imp, "/internal/usecase/") {
			t.Errorf("ffmpeg imports %s; adapters depend on ports only", imp)
		}
	}
}
