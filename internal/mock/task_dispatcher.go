package mock

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

// MockDispatcher implements port.TaskDispatcher for tests.
type MockDispatcher struct {
	TranscodeErr   error
	TranscodeCalls []port.TranscodeVideoInput

	ClassifyErr   error
	ClassifyCalls []port.ClassifyVideoInput

	// Order records job ids in dispatch order.
	Order []string
}

func (m *MockDispatcher) EnqueueTranscodeVideo(ctx context.Context, in port.TranscodeVideoInput) error {
	m.TranscodeCalls = append(m.TranscodeCalls, in)
	if m.TranscodeErr != nil {
		return m.TranscodeErr
	}
	m.Order = append(m.Order, in.JobID)
	return nil
}

func (m *MockDispatcher) EnqueueClassifyVideo(ctx context.Context, in port.ClassifyVideoInput) error {
	m.ClassifyCalls = append(m.ClassifyCalls, in)
	if m.ClassifyErr != nil {
		return m.ClassifyErr
	}
	m.Order = append(m.Order, in.JobID)
	return nil
}
