package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/semaphore"
)

var (
	ErrDispatcherClosed = errors.New("dispatcher: shut down")
	ErrJobPanicked      = errors.New("dispatcher: job panicked")
)

// LocalDispatcher runs jobs inside the current process, each in its own
// goroutine. At most `concurrency` of them execute at the same time; the
// others wait for a slot without blocking the submitter.
type LocalDispatcher struct {
	handler asynq.Handler
	sem     *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// compile-time check
var _ port.TaskDispatcher = (*LocalDispatcher)(nil)

// NewLocalDispatcher runs tasks through handler, typically the same ServeMux cmd/worker serves.
func NewLocalDispatcher(handler asynq.Handler, concurrency int) *LocalDispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LocalDispatcher{
		handler: handler,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (d *LocalDispatcher) EnqueueTranscodeVideo(ctx context.Context, in port.TranscodeVideoInput) error {
	t, err := NewTranscodeVideoTask(NewTranscodeVideoPayload(in))
	if err != nil {
		return err
	}
	if _, err := d.submitTask(t); err != nil {
		return err
	}
	metrics.IncDispatched(TypeTranscodeVideo, "local")
	return nil
}

func (d *LocalDispatcher) EnqueueClassifyVideo(ctx context.Context, in port.ClassifyVideoInput) error {
	t, err := NewClassifyVideoTask(NewClassifyVideoPayload(in))
	if err != nil {
		return err
	}
	if _, err := d.submitTask(t); err != nil {
		return err
	}
	metrics.IncDispatched(TypeClassifyVideo, "local")
	return nil
}

func (d *LocalDispatcher) submitTask(t *asynq.Task) (<-chan error, error) {
	return d.Submit(func(ctx context.Context) error {
		return d.handler.ProcessTask(ctx, t)
	})
}

// Submit schedules fn and returns immediately. The returned channel receives
// the job's outcome once and is then closed.
func (d *LocalDispatcher) Submit(fn func(ctx context.Context) error) (<-chan error, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDispatcherClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer d.wg.Done()
		defer close(done)

		if err := d.sem.Acquire(d.ctx, 1); err != nil {
			done <- fmt.Errorf("%w: %v", ErrDispatcherClosed, err)
			return
		}
		defer d.sem.Release(1)

		done <- d.run(fn)
	}()
	return done, nil
}

func (d *LocalDispatcher) run(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(d.ctx, "❌  Local job panicked: %v", r)
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return fn(d.ctx)
}

// Shutdown stops accepting jobs and waits for in-flight ones. When ctx
// expires first, running jobs are cancelled and ctx.Err() is returned.
func (d *LocalDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	idle := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		return ctx.Err()
	}
}
