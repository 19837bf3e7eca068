package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

// MockJobStore implements port.JobStatusStore in memory and keeps every saved snapshot.
type MockJobStore struct {
	mu sync.Mutex

	Jobs    map[string]model.Job
	Saved   []model.Job
	SaveErr error
	GetErr  error
	Gets    int
}

func (m *MockJobStore) Save(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.Jobs == nil {
		m.Jobs = make(map[string]model.Job)
	}
	m.Jobs[job.ID] = *job
	m.Saved = append(m.Saved, *job)
	return nil
}

func (m *MockJobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	j, ok := m.Jobs[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

// Statuses lists the statuses saved for one job, in order.
func (m *MockJobStore) Statuses(id string) []model.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.JobStatus
	for _, j := range m.Saved {
		if j.ID == id {
			out = append(out, j.Status)
		}
	}
	return out
}
