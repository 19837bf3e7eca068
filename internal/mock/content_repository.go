package mock

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

type FlagCall struct {
	Kind            model.ContentKind
	ContentID       string
	IsShortForm     bool
	ExpectedVersion int64
}

// MockContentRepo implements port.ContentRepository for tests.
type MockContentRepo struct {
	mu sync.Mutex

	// Content is returned as a fresh copy on every GetByID call.
	Content *model.Content
	GetErr  error
	// OnGet runs before each GetByID, with the 1-based call number.
	OnGet    func(call int, c *model.Content)
	GetCalls int

	MoveMissed bool
	MoveErr    error
	MoveCalled bool
	MovedID    string
	MovedFrom  string
	MovedTo    string

	// FlagResults is consumed one entry per UpdateShortForm call; once
	// exhausted every call succeeds.
	FlagResults []bool
	FlagErr     error
	FlagCalls   []FlagCall

	PendingOut []model.PendingVideo
	ListErr    error
	ListCalled bool
	ListPrefix string
	ListBefore time.Time

	Locations       []string
	LocationsErr    error
	LocationsPrefix string
}

func (m *MockContentRepo) GetByID(ctx context.Context, kind model.ContentKind, id string) (*model.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.OnGet != nil {
		m.OnGet(m.GetCalls, m.Content)
	}
	if m.Content == nil {
		return nil, nil
	}
	c := *m.Content
	c.Media = append([]model.MediaItem(nil), m.Content.Media...)
	return &c, nil
}

func (m *MockContentRepo) UpdateMediaLocation(ctx context.Context, mediaID, oldLocation, newLocation string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MoveCalled = true
	m.MovedID = mediaID
	m.MovedFrom = oldLocation
	m.MovedTo = newLocation
	if m.MoveErr != nil {
		return false, m.MoveErr
	}
	if m.MoveMissed {
		return false, nil
	}
	if m.Content != nil {
		for i := range m.Content.Media {
			if m.Content.Media[i].ID == mediaID {
				m.Content.Media[i].Location = newLocation
			}
		}
	}
	return true, nil
}

func (m *MockContentRepo) UpdateShortForm(ctx context.Context, kind model.ContentKind, contentID string, isShortForm bool, expectedVersion int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FlagCalls = append(m.FlagCalls, FlagCall{kind, contentID, isShortForm, expectedVersion})
	if m.FlagErr != nil {
		return false, m.FlagErr
	}
	if n := len(m.FlagCalls); n <= len(m.FlagResults) && !m.FlagResults[n-1] {
		return false, nil
	}
	if m.Content != nil {
		m.Content.IsShortForm = isShortForm
		m.Content.Version++
	}
	return true, nil
}

func (m *MockContentRepo) ListPendingVideosBefore(ctx context.Context, tempPrefix string, before time.Time) ([]model.PendingVideo, error) {
	m.ListCalled = true
	m.ListPrefix = tempPrefix
	m.ListBefore = before
	return m.PendingOut, m.ListErr
}

func (m *MockContentRepo) ListLocationsUnder(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LocationsPrefix = prefix
	return m.Locations, m.LocationsErr
}
