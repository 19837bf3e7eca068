package jobstatus

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

func TestMemoryStore_SaveGet(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	if got, _ := s.Get(ctx, "nope"); got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}

	job := &model.Job{ID: "j1", Status: model.JobStatusQueued}
	if err := s.Save(ctx, job); err != nil {
		t.Fatalf("Save: %v", err)
	}
	job.Status = model.JobStatusFailed // the store keeps its own copy

	got, _ := s.Get(ctx, "j1")
	if got == nil || got.Status != model.JobStatusQueued {
		t.Fatalf("unexpected job: %+v", got)
	}
	got.Status = model.JobStatusRunning
	again, _ := s.Get(ctx, "j1")
	if again.Status != model.JobStatusQueued {
		t.Error("Get must return a copy")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	_ = s.Save(context.Background(), &model.Job{ID: "j1"})
	now = now.Add(2 * time.Minute)

	if got, _ := s.Get(context.Background(), "j1"); got != nil {
		t.Errorf("expected expired entry to be hidden, got %+v", got)
	}

	// the next write evicts it
	_ = s.Save(context.Background(), &model.Job{ID: "j2"})
	if _, ok := s.jobs["j1"]; ok {
		t.Error("expected expired entry to be evicted")
	}
}

func TestMemoryStore_SweepIsAmortized(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5000; i++ {
		now = now.Add(time.Millisecond)
		_ = s.Save(ctx, &model.Job{ID: fmt.Sprintf("j%d", i)})
	}
	if s.sweeps != 1 {
		t.Errorf("swept %d times over 5000 saves within one ttl; want 1", s.sweeps)
	}

	now = now.Add(2 * time.Hour)
	_ = s.Save(ctx, &model.Job{ID: "late"})
	if s.sweeps != 2 {
		t.Errorf("sweeps = %d; want 2 once the ttl has elapsed", s.sweeps)
	}
	if len(s.jobs) != 1 {
		t.Errorf("kept %d entries; want only the fresh one", len(s.jobs))
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(context.Background(), &model.Job{ID: "same", Status: model.JobStatusRunning})
			_, _ = s.Get(context.Background(), "same")
		}()
	}
	wg.Wait()
	if got, _ := s.Get(context.Background(), "same"); got == nil {
		t.Fatal("expected entry")
	}
}
