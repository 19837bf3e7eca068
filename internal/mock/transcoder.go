package mock

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

// MockTranscoder implements port.Transcoder. With WriteOutput set it leaves a
// manifest and one segment in the target directory, like a real run would.
type MockTranscoder struct {
	Result      port.TranscodeResult
	Err         error
	WriteOutput bool

	Called bool
	Src    string
	Dir    string
}

func (m *MockTranscoder) Transcode(ctx context.Context, src, targetDir string) (port.TranscodeResult, error) {
	m.Called = true
	m.Src = src
	m.Dir = targetDir
	if m.WriteOutput {
		_ = os.WriteFile(filepath.Join(targetDir, "master.m3u8"), []byte("#EXTM3U\n"), 0o644)
		_ = os.WriteFile(filepath.Join(targetDir, "segment_000.ts"), []byte{0x47}, 0o644)
	}
	return m.Result, m.Err
}

// MockProber implements port.Prober.
type MockProber struct {
	Seconds float64
	Err     error

	Called bool
	Src    string
}

func (m *MockProber) Duration(ctx context.Context, src string) (float64, error) {
	m.Called = true
	m.Src = src
	return m.Seconds, m.Err
}
