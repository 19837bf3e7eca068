package jobstatus

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type entry struct {
	job       model.Job
	expiresAt time.Time
}

// MemoryStore keeps job records in process memory. Used when Redis is not configured.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]entry
	ttl  time.Duration
	now  func() time.Time

	// expired entries are swept at most once per ttl
	nextSweep time.Time
	sweeps    int
}

// compile-time check: *MemoryStore must satisfy port.JobStatusStore
var _ port.JobStatusStore = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{jobs: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Save(ctx context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{job: *job}
	if s.ttl > 0 {
		now := s.now()
		e.expiresAt = now.Add(s.ttl)
		if !now.Before(s.nextSweep) {
			s.evictLocked()
			s.nextSweep = now.Add(s.ttl)
		}
	}
	s.jobs[job.ID] = e
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	e, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, nil
	}
	job := e.job
	return &job, nil
}

func (s *MemoryStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

func (s *MemoryStore) evictLocked() {
	s.sweeps++
	for id, e := range s.jobs {
		if s.expired(e) {
			delete(s.jobs, id)
		}
	}
}
