package task

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/hibiken/asynq"
)

// Dispatcher enqueues jobs into Redis for cmd/worker.
type Dispatcher struct {
	client           *asynq.Client
	transcodeTimeout time.Duration
	probeTimeout     time.Duration
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

// NewDispatcher builds an asynq client. The timeouts bound how long the
// worker lets a task run; they are padded so the process timeout fires first.
func NewDispatcher(addr, password string, transcodeTimeout, probeTimeout time.Duration) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c, transcodeTimeout: transcodeTimeout, probeTimeout: probeTimeout}
}

func (d *Dispatcher) EnqueueTranscodeVideo(ctx context.Context, in port.TranscodeVideoInput) error {
	// the transcode job may also wait for its sibling classification
	timeout := d.transcodeTimeout + 2*d.probeTimeout + time.Minute
	t, err := NewTranscodeVideoTask(NewTranscodeVideoPayload(in), asynq.Timeout(timeout))
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		return err
	}
	metrics.IncDispatched(TypeTranscodeVideo, "asynq")
	return nil
}

func (d *Dispatcher) EnqueueClassifyVideo(ctx context.Context, in port.ClassifyVideoInput) error {
	t, err := NewClassifyVideoTask(NewClassifyVideoPayload(in), asynq.Timeout(d.probeTimeout+time.Minute))
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		return err
	}
	metrics.IncDispatched(TypeClassifyVideo, "asynq")
	return nil
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
