package mock

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

// MockVideoTranscoder implements port.VideoTranscoder for tests.
type MockVideoTranscoder struct {
	Out    port.TranscodeVideoOutput
	Err    error
	Panic  any
	Called bool
	In     port.TranscodeVideoInput
}

func (m *MockVideoTranscoder) TranscodeVideo(ctx context.Context, in port.TranscodeVideoInput) (port.TranscodeVideoOutput, error) {
	m.Called = true
	m.In = in
	if m.Panic != nil {
		panic(m.Panic)
	}
	return m.Out, m.Err
}

// MockReelClassifier implements port.ReelClassifier for tests.
type MockReelClassifier struct {
	Out    port.ClassifyVideoOutput
	Err    error
	Called bool
	In     port.ClassifyVideoInput
}

func (m *MockReelClassifier) ClassifyVideo(ctx context.Context, in port.ClassifyVideoInput) (port.ClassifyVideoOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockUploadSubmitter implements port.UploadSubmitter for tests.
type MockUploadSubmitter struct {
	Out    port.SubmitUploadOutput
	Err    error
	Called bool
	In     port.SubmitUploadInput
}

func (m *MockUploadSubmitter) SubmitUpload(ctx context.Context, in port.SubmitUploadInput) (port.SubmitUploadOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockStoryValidator implements port.StoryValidator for tests.
type MockStoryValidator struct {
	OK      bool
	Seconds float64
	Err     error
	Called  bool
	Path    string
}

func (m *MockStoryValidator) ValidateStoryVideo(ctx context.Context, path string) (bool, float64, error) {
	m.Called = true
	m.Path = path
	return m.OK, m.Seconds, m.Err
}

type MockBacklogRequeuer struct {
	Err    error
	Called bool

	Removed     int
	SweepErr    error
	SweepCalled bool
	SweepMaxAge time.Duration
}

func (m *MockBacklogRequeuer) RequeueBacklog(ctx context.Context) error {
	m.Called = true
	return m.Err
}

func (m *MockBacklogRequeuer) RemoveOrphanedSources(ctx context.Context, maxAge time.Duration) (int, error) {
	m.SweepCalled = true
	m.SweepMaxAge = maxAge
	return m.Removed, m.SweepErr
}
